package email

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/v1michigan/sweek-backend/internal/config"
)

// Message is a single plain-text email to one recipient.
type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	TextBody string
}

// Sender delivers a single message. Implementations are synchronous; retry
// and pacing policy belongs to the caller.
type Sender interface {
	Send(msg Message) error
}

// NewSender builds the configured sender: sendgrid, smtp or console.
func NewSender(cfg *config.Config, logger zerolog.Logger) (Sender, error) {
	switch cfg.Email.Provider {
	case "sendgrid":
		if cfg.Email.SendgridKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires SENDGRID_API_KEY")
		}
		return NewSendgridSender(cfg.Email.SendgridKey, cfg.Email.FromName, cfg.Email.FromEmail), nil
	case "smtp":
		return NewSMTPSender(SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUser,
			Password:  cfg.Email.SMTPPass,
			FromName:  cfg.Email.FromName,
			FromEmail: cfg.Email.FromEmail,
		}), nil
	case "console":
		return NewConsoleSender(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %q", cfg.Email.Provider)
	}
}
