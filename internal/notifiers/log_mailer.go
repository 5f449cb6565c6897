package notifiers

import (
	"context"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/rs/zerolog"
)

// LogMailer is a mock mailer that implements the Mailer interface.
// It logs the message instead of delivering it, for development and testing.
type LogMailer struct {
	logger zerolog.Logger
}

// NewLogMailer creates a new instance of LogMailer.
func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	return &LogMailer{
		logger: logger.With().Str("component", "log_mailer").Logger(),
	}
}

// Send implements the Mailer interface.
func (m *LogMailer) Send(_ context.Context, env model.Envelope) error {
	m.logger.Info().
		Str("recipient", env.To).
		Str("subject", env.Subject).
		Int("text_len", len(env.Text)).
		Msg(">>> MOCK SEND: email dispatched")

	return nil
}
