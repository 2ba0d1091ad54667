package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/v1michigan/sweek-backend/internal/app/repositories"
	"github.com/v1michigan/sweek-backend/internal/app/services"
	"github.com/v1michigan/sweek-backend/internal/config"
	"github.com/v1michigan/sweek-backend/internal/db"
	"github.com/v1michigan/sweek-backend/internal/pkg/logger"
)

// sync loads companies and student matches from CSV files into the database
// and prints a magic link for every synced student.
//
// Usage: sync [--app-url URL] companies.csv student_matches.csv
func main() {
	appURL := flag.String("app-url", "", "base URL for magic links (overrides config)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: sync [--app-url URL] companies.csv student_matches.csv")
		os.Exit(2)
	}

	if err := godotenv.Load(".env"); err != nil {
		logger.Warn().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "text",
	})
	lgr := log.Logger

	baseURL := cfg.Server.BaseURL
	if *appURL != "" {
		baseURL = *appURL
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	repos := repositories.NewRepositories(database.Pool)
	syncSvc := services.NewSyncService(
		repos.CompanyRepository,
		repos.StudentRepository,
		repos.MatchRepository,
		baseURL,
		lgr,
	)

	report, err := syncSvc.Run(context.Background(), flag.Arg(0), flag.Arg(1))
	if err != nil {
		lgr.Fatal().Err(err).Msg("Sync failed")
	}

	fmt.Println()
	fmt.Println("MAGIC LINKS FOR EMAILING")
	fmt.Println("========================")
	for email, link := range report.MagicLinks {
		fmt.Printf("%s: %s\n", email, link)
	}
	fmt.Println()

	lgr.Info().
		Int("companies", report.Companies).
		Int("students", report.Students).
		Int("matches", report.Matches).
		Msg("Sync completed successfully")
}
