package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/app/services"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
	"github.com/v1michigan/sweek-backend/internal/pkg/auth"
)

type stubStudentStore struct {
	byHash map[string]*models.Student
}

func (s *stubStudentStore) GetActiveByTokenHash(_ context.Context, tokenHash string) (*models.Student, error) {
	student, ok := s.byHash[tokenHash]
	if !ok || !student.IsActive {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

type stubMatchStore struct {
	matches   map[string]*models.Match // key: studentID + "|" + companyID
	updateErr error
}

func (s *stubMatchStore) ListByStudent(_ context.Context, studentID string) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range s.matches {
		if m.StudentID == studentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *stubMatchStore) UpdateStage(_ context.Context, studentID, companyID string, stage models.Stage) (models.Stage, error) {
	if s.updateErr != nil {
		return "", s.updateErr
	}
	m, ok := s.matches[studentID+"|"+companyID]
	if !ok {
		return "", apperrors.ErrMatchNotFound
	}
	m.Stage = stage
	return m.Stage, nil
}

const (
	testToken     = "abc123"
	testStudentID = "7a9f1c52-3e86-4a46-9d50-5f8b6a3c2e11"
	acmeID        = "e1bfa9d1-9d3b-4f2a-a1c7-6d1f2b3c4d5e"
)

func newTestRouter(store *stubMatchStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	students := &stubStudentStore{byHash: map[string]*models.Student{
		auth.HashToken(testToken): {
			ID:       testStudentID,
			Email:    "student@umich.edu",
			Name:     "Alex Rivera",
			IsActive: true,
		},
	}}

	svc := services.NewMatchService(students, store, zerolog.Nop())
	controller := NewMatchController(svc, zerolog.Nop())

	router := gin.New()
	api := router.Group("/api/v1/matches")
	{
		api.POST("/stage", controller.UpdateStage)
		api.GET("/:token", controller.ListMatches)
	}
	return router
}

func newSeededStore() *stubMatchStore {
	return &stubMatchStore{matches: map[string]*models.Match{
		testStudentID + "|" + acmeID: {
			StudentID: testStudentID,
			CompanyID: acmeID,
			Tier:      models.TierTop10,
			Stage:     models.StagePending,
			Company:   &models.Company{ID: acmeID, Name: "Acme"},
		},
	}}
}

func postStage(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/matches/stage", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestUpdateStageEndpoint(t *testing.T) {
	store := newSeededStore()
	router := newTestRouter(store)

	w := postStage(router, `{"token":"abc123","companyId":"`+acmeID+`","stage":"need_to_schedule"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"stage":"need_to_schedule"}}`, w.Body.String())
	assert.Equal(t, models.StageNeedToSchedule, store.matches[testStudentID+"|"+acmeID].Stage)
}

func TestUpdateStageEndpointMissingFields(t *testing.T) {
	store := newSeededStore()
	router := newTestRouter(store)

	for _, body := range []string{
		`{"companyId":"` + acmeID + `","stage":"scheduled"}`,
		`{"token":"abc123","stage":"scheduled"}`,
		`{"token":"abc123","companyId":"` + acmeID + `"}`,
		`{}`,
		`not json`,
	} {
		w := postStage(router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
		assert.JSONEq(t, `{"error":"Missing required fields: token, companyId, stage"}`, w.Body.String())
	}

	assert.Equal(t, models.StagePending, store.matches[testStudentID+"|"+acmeID].Stage)
}

func TestUpdateStageEndpointInvalidStage(t *testing.T) {
	store := newSeededStore()
	router := newTestRouter(store)

	w := postStage(router, `{"token":"abc123","companyId":"`+acmeID+`","stage":"bogus_stage"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid stage value"}`, w.Body.String())
	assert.Equal(t, models.StagePending, store.matches[testStudentID+"|"+acmeID].Stage)
}

func TestUpdateStageEndpointUnknownToken(t *testing.T) {
	router := newTestRouter(newSeededStore())

	w := postStage(router, `{"token":"no-such-token","companyId":"`+acmeID+`","stage":"scheduled"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Student not found or inactive"}`, w.Body.String())
}

func TestUpdateStageEndpointPersistenceFailure(t *testing.T) {
	store := newSeededStore()
	store.updateErr = errors.New("connection reset")
	router := newTestRouter(store)

	w := postStage(router, `{"token":"abc123","companyId":"`+acmeID+`","stage":"scheduled"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to update match stage"}`, w.Body.String())
}

func TestUpdateStageEndpointMatchMissing(t *testing.T) {
	router := newTestRouter(newSeededStore())

	w := postStage(router, `{"token":"abc123","companyId":"unmatched-company","stage":"scheduled"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to update match stage"}`, w.Body.String())
}

func TestListMatchesEndpoint(t *testing.T) {
	router := newTestRouter(newSeededStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/"+testToken, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Student struct {
				Name string `json:"name"`
			} `json:"student"`
			Matches []struct {
				Company struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"company"`
				Tier      string `json:"tier"`
				Stage     string `json:"stage"`
				ViewState string `json:"viewState"`
			} `json:"matches"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "Alex Rivera", resp.Data.Student.Name)
	require.Len(t, resp.Data.Matches, 1)
	assert.Equal(t, "Acme", resp.Data.Matches[0].Company.Name)
	assert.Equal(t, "Top 10", resp.Data.Matches[0].Tier)
	assert.Equal(t, "pending", resp.Data.Matches[0].Stage)
	assert.Equal(t, "pending", resp.Data.Matches[0].ViewState)
}

func TestListMatchesEndpointUnknownToken(t *testing.T) {
	router := newTestRouter(newSeededStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/matches/no-such-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Student not found or inactive"}`, w.Body.String())
}
