package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/v1michigan/sweek-backend/internal/app/models/dto"
	"github.com/v1michigan/sweek-backend/internal/app/services"
	"github.com/v1michigan/sweek-backend/internal/middleware"
)

// MatchController handles the student-facing match API
type MatchController struct {
	matchService services.MatchService
	logger       zerolog.Logger
}

// NewMatchController creates a new MatchController
func NewMatchController(matchService services.MatchService, logger zerolog.Logger) *MatchController {
	return &MatchController{
		matchService: matchService,
		logger:       logger,
	}
}

// UpdateStage handles a match stage transition
// @Summary Update a match stage
// @Description Validates and persists a new stage for the (student, company) match identified by the bearer token and company ID
// @Tags matches
// @Accept json
// @Produce json
// @Param request body dto.UpdateStageRequest true "Stage update request"
// @Success 200 {object} dto.APIResponse{data=dto.UpdateStageData} "Stage updated"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or unrecognized stage"
// @Failure 404 {object} dto.ErrorResponse "Student not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Stage update failed"
// @Router /matches/stage [post]
func (c *MatchController) UpdateStage(ctx *gin.Context) {
	var req dto.UpdateStageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(middleware.MsgMissingFields))
		return
	}

	stage, err := c.matchService.UpdateStage(ctx, req.Token, req.CompanyID, req.Stage)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UpdateStageData{Stage: stage}))
}

// ListMatches returns a student's match list
// @Summary List a student's matches
// @Description Resolves the bearer token and returns the student's matches with company details, sorted for presentation
// @Tags matches
// @Produce json
// @Param token path string true "Student bearer token"
// @Success 200 {object} dto.APIResponse{data=dto.MatchListData} "Matches retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /matches/{token} [get]
func (c *MatchController) ListMatches(ctx *gin.Context) {
	student, matches, err := c.matchService.ListMatches(ctx, ctx.Param("token"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewMatchListData(student, matches)))
}
