package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/v1michigan/sweek-backend/internal/app/repositories"
	"github.com/v1michigan/sweek-backend/internal/app/services"
	"github.com/v1michigan/sweek-backend/internal/config"
	"github.com/v1michigan/sweek-backend/internal/db"
	"github.com/v1michigan/sweek-backend/internal/pkg/email"
	"github.com/v1michigan/sweek-backend/internal/pkg/logger"
)

// mailer sends every active student their magic-link announcement email
// through the configured provider, with retries, pacing and an attempt log.
func main() {
	skipConfirm := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

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

	if cfg.Email.FromEmail == "" {
		lgr.Fatal().Msg("FROM_EMAIL is required")
	}

	if !*skipConfirm {
		fmt.Print("This will send emails to ALL active students in the database. Continue? (yes/no): ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "yes" && answer != "y" {
			fmt.Println("Email sending cancelled.")
			return
		}
	}

	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	sender, err := email.NewSender(cfg, lgr)
	if err != nil {
		lgr.Fatal().Err(err).Msg("Failed to initialize email sender")
	}

	repos := repositories.NewRepositories(database.Pool)
	mailerSvc := services.NewMailerService(
		repos.StudentRepository,
		sender,
		cfg.Server.BaseURL,
		services.MailerOptions{
			DelayMin:   time.Duration(cfg.Mailer.DelayMinMS) * time.Millisecond,
			DelayMax:   time.Duration(cfg.Mailer.DelayMaxMS) * time.Millisecond,
			BatchSize:  cfg.Mailer.BatchSize,
			BatchDelay: time.Duration(cfg.Mailer.BatchDelay) * time.Second,
			MaxRetries: cfg.Mailer.MaxRetries,
			LogPath:    fmt.Sprintf("email_log_%s.json", time.Now().Format("20060102_150405")),
		},
		lgr,
	)

	report, err := mailerSvc.Run(context.Background())
	if err != nil {
		lgr.Fatal().Err(err).Msg("Mailer run failed")
	}

	fmt.Println()
	fmt.Println("EMAIL SENDING SUMMARY")
	fmt.Println("=====================")
	fmt.Printf("Successful: %d\n", report.Successful)
	fmt.Printf("Failed:     %d\n", report.Failed)
	fmt.Printf("Total:      %d\n", report.Total)
	for _, failed := range report.FailedList {
		fmt.Printf("  - %s\n", failed)
	}
}
