package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
	"github.com/v1michigan/sweek-backend/internal/pkg/dberrors"
)

// MatchRepository handles database operations for matches
type MatchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{
		db: db,
	}
}

// ListByStudent retrieves all matches for a student with the company joined,
// limited to active companies.
func (r *MatchRepository) ListByStudent(ctx context.Context, studentID string) ([]*models.Match, error) {
	query := `
		SELECT m.student_id, m.company_id, m.tier, m.stage, m.created_at, m.updated_at,
		       c.id, c.name, c.blurb, c.looking_for, c.learn_more_url,
		       c.logo_slug, c.scheduling_url, c.website_url, c.is_active
		FROM sweek_matches m
		JOIN sweek_companies c ON c.id = m.company_id
		WHERE m.student_id = $1 AND c.is_active = TRUE
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []*models.Match
	for rows.Next() {
		var match models.Match
		var company models.Company
		if err := rows.Scan(
			&match.StudentID,
			&match.CompanyID,
			&match.Tier,
			&match.Stage,
			&match.CreatedAt,
			&match.UpdatedAt,
			&company.ID,
			&company.Name,
			&company.Blurb,
			&company.LookingFor,
			&company.LearnMoreURL,
			&company.LogoSlug,
			&company.SchedulingURL,
			&company.WebsiteURL,
			&company.IsActive,
		); err != nil {
			return nil, err
		}
		match.Company = &company
		matches = append(matches, &match)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

// UpdateStage persists a new stage for the (studentID, companyID) key and
// returns the persisted value. The update is a single statement, so two
// concurrent requests for the same key serialize at the row and last write
// wins; a read-modify-write interleaving cannot occur.
func (r *MatchRepository) UpdateStage(ctx context.Context, studentID, companyID string, stage models.Stage) (models.Stage, error) {
	query := `
		UPDATE sweek_matches
		SET stage = $3, updated_at = NOW()
		WHERE student_id = $1 AND company_id = $2
		RETURNING stage
	`

	var persisted models.Stage
	err := r.db.QueryRow(ctx, query, studentID, companyID, stage).Scan(&persisted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrMatchNotFound
		}
		return "", fmt.Errorf("error updating match stage: %w", err)
	}

	return persisted, nil
}

// ReplaceForStudent deletes the student's existing matches and inserts the
// given set in one transaction, as the sync job's full-replace semantics
// require. New rows always start at pending.
func (r *MatchRepository) ReplaceForStudent(ctx context.Context, studentID string, matches []*models.Match) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM sweek_matches WHERE student_id = $1`, studentID); err != nil {
		return fmt.Errorf("error deleting existing matches: %w", err)
	}

	for _, match := range matches {
		_, err := tx.Exec(ctx, `
			INSERT INTO sweek_matches (student_id, company_id, tier, stage)
			VALUES ($1, $2, $3, $4)`,
			studentID, match.CompanyID, match.Tier, models.StagePending,
		)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", apperrors.ErrCompanyNotFound, match.CompanyID)
			}
			return fmt.Errorf("error creating match: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
