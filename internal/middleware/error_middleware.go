package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/v1michigan/sweek-backend/internal/app/models/dto"
	"github.com/v1michigan/sweek-backend/internal/pkg/apperrors"
)

// Wire error messages. The exact strings are part of the API contract.
const (
	MsgMissingFields  = "Missing required fields: token, companyId, stage"
	MsgInvalidStage   = "Invalid stage value"
	MsgNotFound       = "Student not found or inactive"
	MsgUpdateFailed   = "Failed to update match stage"
	MsgInternalServer = "Internal server error"
)

// HandleAPIError converts service errors into the structured wire responses.
// All errors are resolved here; none propagate as unhandled faults.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrMissingFields):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(MsgMissingFields))
	case errors.Is(err, apperrors.ErrInvalidStage):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(MsgInvalidStage))
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	case errors.Is(err, apperrors.ErrStudentNotFound):
		// Unknown, malformed and deactivated tokens are indistinguishable
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(MsgNotFound))
	case errors.Is(err, apperrors.ErrMatchNotFound), errors.Is(err, apperrors.ErrPersistence):
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(MsgUpdateFailed))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(MsgInternalServer))
	}
}
