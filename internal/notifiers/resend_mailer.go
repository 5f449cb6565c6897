package notifiers

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// Ensure ResendMailer implements the interface
var _ Mailer = (*ResendMailer)(nil)

// ResendMailer sends messages through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
	logger zerolog.Logger
}

// NewResendMailer creates a new instance of ResendMailer.
func NewResendMailer(cfg config.NotifiersConfig, logger *zerolog.Logger) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(cfg.Resend.APIKey),
		from:   cfg.Email.From,
		logger: logger.With().Str("component", "resend_mailer").Logger(),
	}
}

// Send implements the Mailer interface for Resend.
func (m *ResendMailer) Send(ctx context.Context, env model.Envelope) error {
	to := env.To
	if env.ToName != "" {
		to = fmt.Sprintf("%s <%s>", env.ToName, env.To)
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: env.Subject,
		Text:    env.Text,
		Html:    env.HTML,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		m.logger.Error().Err(err).Str("recipient", env.To).Msg("failed to send email")
		return fmt.Errorf("resend: send to %s: %w", env.To, err)
	}

	m.logger.Info().Str("recipient", env.To).Str("message_id", sent.Id).Msg("email sent successfully")
	return nil
}
