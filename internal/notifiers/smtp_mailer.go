package notifiers

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Ensure SMTPMailer implements the interface
var _ Mailer = (*SMTPMailer)(nil)

// SMTPMailer sends messages via SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger zerolog.Logger
}

// NewSMTPMailer creates a new instance of SMTPMailer.
func NewSMTPMailer(cfg config.EmailConfig, logger *zerolog.Logger) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{
		dialer: d,
		from:   cfg.From,
		logger: logger.With().Str("component", "smtp_mailer").Logger(),
	}
}

// Send implements the Mailer interface for SMTP.
func (m *SMTPMailer) Send(_ context.Context, env model.Envelope) error {
	if env.To == "" {
		return fmt.Errorf("smtp: empty recipient")
	}

	msg := buildMessage(m.from, env)

	// DialAndSend opens a connection, sends the email, and closes it.
	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("recipient", env.To).Msg("failed to send email")
		return fmt.Errorf("smtp: send to %s: %w", env.To, err)
	}

	m.logger.Info().Str("recipient", env.To).Msg("email sent successfully")
	return nil
}

// buildMessage renders the envelope as a multipart/alternative message.
func buildMessage(from string, env model.Envelope) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	if env.ToName != "" {
		msg.SetAddressHeader("To", env.To, env.ToName)
	} else {
		msg.SetHeader("To", env.To)
	}
	msg.SetHeader("Subject", env.Subject)
	msg.SetBody("text/plain", env.Text)
	if env.HTML != "" {
		msg.AddAlternative("text/html", env.HTML)
	}
	return msg
}
