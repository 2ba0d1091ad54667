package main

import (
	"os"

	"github.com/v1michigan/sweek-backend/internal/pkg/logger"
	"github.com/v1michigan/sweek-backend/internal/server"
)

// @title Startup Week Matches API
// @version 1.0
// @description API for viewing and updating Startup Week company matches via magic-link tokens

// @contact.name V1 @ Michigan
// @contact.email team@v1michigan.com

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
