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

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// GetActiveByTokenHash retrieves the active student whose token hash matches.
// Unknown hashes and deactivated accounts are indistinguishable to callers:
// both return apperrors.ErrStudentNotFound.
func (r *StudentRepository) GetActiveByTokenHash(ctx context.Context, tokenHash string) (*models.Student, error) {
	query := `
		SELECT id, email, name, token, token_hash, is_active, created_at
		FROM sweek_students
		WHERE token_hash = $1 AND is_active = TRUE
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&student.ID,
		&student.Email,
		&student.Name,
		&student.Token,
		&student.TokenHash,
		&student.IsActive,
		&student.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// GetByEmail retrieves a student by email regardless of active state.
func (r *StudentRepository) GetByEmail(ctx context.Context, email string) (*models.Student, error) {
	query := `
		SELECT id, email, name, token, token_hash, is_active, created_at
		FROM sweek_students
		WHERE email = $1
	`

	var student models.Student
	err := r.db.QueryRow(ctx, query, email).Scan(
		&student.ID,
		&student.Email,
		&student.Name,
		&student.Token,
		&student.TokenHash,
		&student.IsActive,
		&student.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return &student, nil
}

// Create inserts a new student and fills in the generated ID.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO sweek_students (email, name, token, token_hash, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		student.Email, student.Name, student.Token, student.TokenHash, student.IsActive,
	).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrStudentExists, student.Email)
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// UpdateName changes a student's display name.
func (r *StudentRepository) UpdateName(ctx context.Context, id, name string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE sweek_students SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("error updating student name: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// GetAllActive retrieves every active student, used by the bulk mailer.
func (r *StudentRepository) GetAllActive(ctx context.Context) ([]*models.Student, error) {
	query := `
		SELECT id, email, name, token, token_hash, is_active, created_at
		FROM sweek_students
		WHERE is_active = TRUE
		ORDER BY email
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		var student models.Student
		if err := rows.Scan(
			&student.ID,
			&student.Email,
			&student.Name,
			&student.Token,
			&student.TokenHash,
			&student.IsActive,
			&student.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}
