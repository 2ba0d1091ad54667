package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/v1michigan/sweek-backend/internal/app/controllers"
	"github.com/v1michigan/sweek-backend/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	matchController *controllers.MatchController,
	viewController *controllers.ViewController,
) {
	// Magic-link match view (public, token in path)
	router.GET("/s/:token", viewController.MatchView)

	// API version group
	v1 := router.Group("/api/v1")

	matches := v1.Group("/matches")
	{
		matches.POST("/stage", matchController.UpdateStage)
		matches.GET("/:token", matchController.ListMatches)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}
