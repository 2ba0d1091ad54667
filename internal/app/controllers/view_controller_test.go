package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/app/services"
	"github.com/v1michigan/sweek-backend/internal/pkg/auth"
)

const inactiveToken = "inactive-token"

func newViewRouter(store *stubMatchStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	students := &stubStudentStore{byHash: map[string]*models.Student{
		auth.HashToken(testToken): {
			ID:       testStudentID,
			Email:    "student@umich.edu",
			Name:     "Alex Rivera",
			IsActive: true,
		},
		auth.HashToken(inactiveToken): {
			ID:       "deactivated-id",
			Email:    "former@umich.edu",
			Name:     "Former Student",
			IsActive: false,
		},
	}}

	svc := services.NewMatchService(students, store, zerolog.Nop())
	controller := NewViewController(svc, zerolog.Nop())

	router := gin.New()
	router.LoadHTMLGlob("../../../web/templates/*.html")
	router.GET("/s/:token", controller.MatchView)
	return router
}

func getView(router *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/s/"+token, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestMatchViewRenders(t *testing.T) {
	router := newViewRouter(newSeededStore())

	w := getView(router, testToken)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Hey Alex Rivera, here are your matches")
	assert.Contains(t, body, "Acme")
	assert.Contains(t, body, `class="card card-pending"`)
	assert.Contains(t, body, `data-company-id="`+acmeID+`"`)
}

func TestMatchViewNotFoundIndistinguishable(t *testing.T) {
	router := newViewRouter(newSeededStore())

	// malformed, unknown and deactivated tokens must render identically
	tokens := []string{
		"%21%21not-a-token%21%21",
		"hC4nT3qyG1l0aZbXl0dXJsc2FmZS10b2tlbjEyMzQ",
		inactiveToken,
	}

	var bodies []string
	for _, token := range tokens {
		w := getView(router, token)
		assert.Equal(t, http.StatusNotFound, w.Code, "token: %s", token)
		bodies = append(bodies, w.Body.String())
	}

	assert.Contains(t, bodies[0], "We couldn't find your matches")
	assert.Equal(t, bodies[0], bodies[1])
	assert.Equal(t, bodies[1], bodies[2])
}
