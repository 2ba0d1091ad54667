package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
	"github.com/v1michigan/sweek-backend/internal/pkg/auth"
)

// StudentStore is the read side of the student relation as the match service
// consumes it. The pgx repository satisfies it; tests use an in-memory fake.
type StudentStore interface {
	GetActiveByTokenHash(ctx context.Context, tokenHash string) (*models.Student, error)
}

// MatchStore is the match relation as the match service consumes it.
type MatchStore interface {
	ListByStudent(ctx context.Context, studentID string) ([]*models.Match, error)
	UpdateStage(ctx context.Context, studentID, companyID string, stage models.Stage) (models.Stage, error)
}

// MatchService defines the student-facing match operations
type MatchService interface {
	// ResolveStudent maps a bearer token to an active student. Malformed,
	// unknown and deactivated tokens all fail identically.
	ResolveStudent(ctx context.Context, token string) (*models.Student, error)
	// ListMatches resolves the token and returns the student's matches,
	// sorted for presentation.
	ListMatches(ctx context.Context, token string) (*models.Student, []*models.Match, error)
	// UpdateStage validates and persists a stage transition for the
	// (student, company) key, returning the persisted stage.
	UpdateStage(ctx context.Context, token, companyID, stage string) (models.Stage, error)
}

// matchServiceImpl implements the MatchService interface
type matchServiceImpl struct {
	students StudentStore
	matches  MatchStore
	logger   zerolog.Logger
}

// NewMatchService creates a new match service instance
func NewMatchService(students StudentStore, matches MatchStore, logger zerolog.Logger) MatchService {
	return &matchServiceImpl{
		students: students,
		matches:  matches,
		logger:   logger,
	}
}

func (s *matchServiceImpl) ResolveStudent(ctx context.Context, token string) (*models.Student, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.students.GetActiveByTokenHash(ctx, auth.HashToken(token))
}

func (s *matchServiceImpl) ListMatches(ctx context.Context, token string) (*models.Student, []*models.Match, error) {
	student, err := s.ResolveStudent(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	matches, err := s.matches.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing matches: %w", err)
	}

	models.SortMatches(matches)
	return student, matches, nil
}

func (s *matchServiceImpl) UpdateStage(ctx context.Context, token, companyID, stage string) (models.Stage, error) {
	// Presence check comes before any I/O
	if token == "" || companyID == "" || stage == "" {
		return "", fmt.Errorf("%w: token, companyId, stage", apperrors.ErrMissingFields)
	}

	// Membership is the only stage validation: the workflow is human-curated
	// and every recognized stage is a legal target from every other.
	newStage := models.Stage(stage)
	if !newStage.Recognized() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStage, stage)
	}

	student, err := s.ResolveStudent(ctx, token)
	if err != nil {
		return "", err
	}

	// A malformed company ID can never name a match row; fail it the same
	// way an unknown one does instead of letting the uuid cast error out.
	if _, err := uuid.Parse(companyID); err != nil {
		return "", apperrors.ErrMatchNotFound
	}

	persisted, err := s.matches.UpdateStage(ctx, student.ID, companyID, newStage)
	if err != nil {
		s.logger.Error().Err(err).
			Str("studentId", student.ID).
			Str("companyId", companyID).
			Str("stage", stage).
			Msg("Failed to update match stage")
		if errors.Is(err, apperrors.ErrMatchNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
	}

	s.logger.Info().
		Str("studentId", student.ID).
		Str("companyId", companyID).
		Str("stage", string(persisted)).
		Msg("Match stage updated")

	return persisted, nil
}
