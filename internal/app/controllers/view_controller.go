package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/v1michigan/sweek-backend/internal/app/models/dto"
	"github.com/v1michigan/sweek-backend/internal/app/services"
)

// ViewController renders the HTML match view behind the magic link
type ViewController struct {
	matchService services.MatchService
	logger       zerolog.Logger
}

// NewViewController creates a new ViewController
func NewViewController(matchService services.MatchService, logger zerolog.Logger) *ViewController {
	return &ViewController{
		matchService: matchService,
		logger:       logger,
	}
}

// MatchView renders the match list page for the token in the path. Every
// resolution failure renders the same not-found page: the view must not
// leak whether a token was malformed, unknown or deactivated.
func (c *ViewController) MatchView(ctx *gin.Context) {
	student, matches, err := c.matchService.ListMatches(ctx, ctx.Param("token"))
	if err != nil {
		ctx.HTML(http.StatusNotFound, "notfound.html", nil)
		return
	}

	ctx.HTML(http.StatusOK, "matches.html", gin.H{
		"Student": dto.StudentData{Name: student.Name},
		"Matches": dto.NewMatchListData(student, matches).Matches,
		"Token":   ctx.Param("token"),
	})
}
