package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/v1michigan/sweek-backend/internal/app/models"
	"github.com/v1michigan/sweek-backend/internal/pkg/email"
)

const matchesEmailSubject = "🎉 Your Startup Week Company Matches Are Ready!"

const matchesEmailTemplate = `Hey %s,

Congrats on getting into Startup Week! 🎉

Click the link below to see who your matches are:
%s

Please do not share this link with anyone or our matches will be invalidated.

Also feel free to email us if you have any questions.

Good luck!

Best,
The V1 Team
`

// StudentLister is the student relation as the mailer consumes it.
type StudentLister interface {
	GetAllActive(ctx context.Context) ([]*models.Student, error)
}

// MailerOptions controls pacing, batching and retries of a bulk run.
type MailerOptions struct {
	DelayMin   time.Duration
	DelayMax   time.Duration
	BatchSize  int
	BatchDelay time.Duration
	MaxRetries int
	LogPath    string
}

// MailerReport summarizes a bulk run.
type MailerReport struct {
	Total      int
	Successful int
	Failed     int
	FailedList []string
}

// attemptLog is the JSON record appended per attempt to the log file, kept
// compatible with the historical mailer's log format.
type attemptLog struct {
	Timestamp string `json:"timestamp"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// MailerService sends every active student their magic-link announcement
// email, with per-email retry, randomized pacing and batch delays so the
// provider's rate limits are respected.
type MailerService struct {
	students StudentLister
	sender   email.Sender
	baseURL  string
	opts     MailerOptions
	logger   zerolog.Logger
}

// NewMailerService creates a new mailer service instance
func NewMailerService(students StudentLister, sender email.Sender, baseURL string, opts MailerOptions, logger zerolog.Logger) *MailerService {
	return &MailerService{
		students: students,
		sender:   sender,
		baseURL:  strings.TrimRight(baseURL, "/"),
		opts:     opts,
		logger:   logger,
	}
}

// Run sends to all active students and returns the summary.
func (s *MailerService) Run(ctx context.Context) (*MailerReport, error) {
	students, err := s.students.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching students: %w", err)
	}
	if len(students) == 0 {
		return &MailerReport{}, nil
	}

	s.logger.Info().
		Int("students", len(students)).
		Int("batchSize", s.opts.BatchSize).
		Int("maxRetries", s.opts.MaxRetries).
		Msg("Starting bulk email run")

	report := &MailerReport{Total: len(students)}

	for i, student := range students {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if student.Email == "" || student.Token == "" {
			report.Failed++
			report.FailedList = append(report.FailedList, student.Email+" - missing data")
			s.logAttempt(student.Email, student.Name, false, "missing email or token")
			continue
		}

		if err := s.sendWithRetry(student); err != nil {
			report.Failed++
			report.FailedList = append(report.FailedList, student.Email+" - send failed")
			s.logger.Error().Err(err).Str("email", student.Email).Msg("Failed to send email")
		} else {
			report.Successful++
			s.logger.Info().
				Str("email", student.Email).
				Int("sent", i+1).
				Int("total", len(students)).
				Msg("Email sent")
		}

		if i < len(students)-1 {
			time.Sleep(s.interEmailDelay())
			if s.opts.BatchSize > 0 && (i+1)%s.opts.BatchSize == 0 {
				s.logger.Info().Dur("delay", s.opts.BatchDelay).Msg("Batch complete, pausing")
				time.Sleep(s.opts.BatchDelay)
			}
		}
	}

	s.logger.Info().
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Int("total", report.Total).
		Msg("Bulk email run complete")

	return report, nil
}

// sendWithRetry delivers one message, retrying with exponential backoff and
// jitter on failure.
func (s *MailerService) sendWithRetry(student *models.Student) error {
	msg := email.Message{
		ToEmail:  student.Email,
		ToName:   student.Name,
		Subject:  matchesEmailSubject,
		TextBody: fmt.Sprintf(matchesEmailTemplate, student.Name, s.baseURL+"/s/"+student.Token),
	}

	retries := s.opts.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		lastErr = s.sender.Send(msg)
		if lastErr == nil {
			s.logAttempt(student.Email, student.Name, true, "")
			return nil
		}

		s.logger.Warn().Err(lastErr).
			Str("email", student.Email).
			Int("attempt", attempt+1).
			Int("maxRetries", retries).
			Msg("Email send failed")

		if attempt < retries-1 {
			backoff := time.Duration(1<<uint(attempt))*time.Second +
				time.Duration(rand.Int63n(int64(time.Second)))
			time.Sleep(backoff)
		}
	}

	s.logAttempt(student.Email, student.Name, false, lastErr.Error())
	return lastErr
}

func (s *MailerService) interEmailDelay() time.Duration {
	if s.opts.DelayMax <= s.opts.DelayMin {
		return s.opts.DelayMin
	}
	return s.opts.DelayMin + time.Duration(rand.Int63n(int64(s.opts.DelayMax-s.opts.DelayMin)))
}

// logAttempt appends one attempt record to the JSON log file. Log failures
// are reported but never abort the run.
func (s *MailerService) logAttempt(addr, name string, success bool, errMsg string) {
	if s.opts.LogPath == "" {
		return
	}

	entry := attemptLog{
		Timestamp: time.Now().Format(time.RFC3339),
		Email:     addr,
		Name:      name,
		Success:   success,
		Error:     errMsg,
	}

	var logs []attemptLog
	if data, err := os.ReadFile(s.opts.LogPath); err == nil {
		_ = json.Unmarshal(data, &logs)
	}
	logs = append(logs, entry)

	data, err := json.MarshalIndent(logs, "", "  ")
	if err == nil {
		err = os.WriteFile(s.opts.LogPath, data, 0o644)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.opts.LogPath).Msg("Could not write email log")
	}
}
