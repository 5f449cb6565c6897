package notifiers

import (
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/rs/zerolog"
)

// NewMailer picks the mail transport based on the application's configuration mode.
// Outside "production" mode, or without transport settings, every message goes to the LogMailer.
func NewMailer(cfg *config.Config, logger *zerolog.Logger) (Mailer, error) {
	log := logger.With().Str("component", "mailer_factory").Logger()
	log.Info().Str("mode", cfg.Notifiers.Mode).Str("provider", cfg.Notifiers.Provider).Msg("initializing mailer")

	if cfg.Notifiers.Mode != "production" {
		return NewLogMailer(logger), nil
	}

	switch cfg.Notifiers.Provider {
	case "smtp", "":
		if cfg.Notifiers.Email.Host == "" {
			log.Warn().Msg("smtp host is empty, falling back to log mailer")
			return NewLogMailer(logger), nil
		}
		log.Info().Str("host", cfg.Notifiers.Email.Host).Msg("smtp mailer enabled")
		return NewSMTPMailer(cfg.Notifiers.Email, logger), nil
	case "resend":
		if cfg.Notifiers.Resend.APIKey == "" {
			return nil, fmt.Errorf("resend mailer requires notifiers.resend.api_key")
		}
		log.Info().Msg("resend mailer enabled")
		return NewResendMailer(cfg.Notifiers, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail provider: %s", cfg.Notifiers.Provider)
	}
}
