package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
)

// CompanyRepository handles database operations for companies
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{
		db: db,
	}
}

// Upsert inserts a company or refreshes its profile fields when the name
// already exists. The generated or existing ID is filled into the model.
func (r *CompanyRepository) Upsert(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO sweek_companies
			(name, blurb, looking_for, learn_more_url, logo_slug, scheduling_url, website_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE SET
			blurb = EXCLUDED.blurb,
			looking_for = EXCLUDED.looking_for,
			learn_more_url = EXCLUDED.learn_more_url,
			logo_slug = EXCLUDED.logo_slug,
			scheduling_url = EXCLUDED.scheduling_url,
			website_url = EXCLUDED.website_url,
			is_active = EXCLUDED.is_active
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		company.Name,
		company.Blurb,
		company.LookingFor,
		company.LearnMoreURL,
		company.LogoSlug,
		company.SchedulingURL,
		company.WebsiteURL,
		company.IsActive,
	).Scan(&company.ID)
	if err != nil {
		return fmt.Errorf("error upserting company: %w", err)
	}

	return nil
}

// GetIDByName retrieves a company's ID by its unique name.
func (r *CompanyRepository) GetIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `SELECT id FROM sweek_companies WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrCompanyNotFound
		}
		return "", fmt.Errorf("error retrieving company: %w", err)
	}

	return id, nil
}
