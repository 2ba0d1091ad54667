package email

import "github.com/rs/zerolog"

// ConsoleSender logs messages instead of delivering them. Used in
// development when no provider is configured.
type ConsoleSender struct {
	logger zerolog.Logger
}

var _ Sender = (*ConsoleSender)(nil)

// NewConsoleSender creates a console sender.
func NewConsoleSender(logger zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Send logs the message to the console.
func (s *ConsoleSender) Send(msg Message) error {
	s.logger.Info().
		Str("to", msg.ToEmail).
		Str("subject", msg.Subject).
		Str("body", msg.TextBody).
		Msg("Email (console provider, not sent)")
	return nil
}
