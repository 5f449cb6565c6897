package service

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/ilindan-dev/homemaster-mailer/internal/notifiers"
	"github.com/rs/zerolog"
	"net/mail"
)

// EmailService sends one announcement to one address.
type EmailService struct {
	mailer   notifiers.Mailer
	composer *notifiers.Composer
	logger   zerolog.Logger
}

// NewEmailService creates a new EmailService.
func NewEmailService(mailer notifiers.Mailer, composer *notifiers.Composer, logger *zerolog.Logger) *EmailService {
	return &EmailService{
		mailer:   mailer,
		composer: composer,
		logger:   logger.With().Str("layer", "email_service").Logger(),
	}
}

// Send delivers the message. Any failure after the auth check is internal:
// an unusable address is rejected before the transport is dialed.
func (s *EmailService) Send(ctx context.Context, req model.EmailRequest, caller model.Caller) error {
	if !caller.IsAuthenticated() {
		return model.ErrUnauthenticated
	}
	if _, err := mail.ParseAddress(req.ToEmail); err != nil {
		s.logger.Error().Err(err).Str("recipient", req.ToEmail).Msg("Error sending email: invalid recipient")
		return fmt.Errorf("%w: invalid email format: %w", model.ErrInternal, err)
	}

	env := model.Envelope{
		To:           req.ToEmail,
		ToName:       req.ToName,
		EmailContent: s.composer.Compose(req.Message),
	}
	if err := s.mailer.Send(ctx, env); err != nil {
		s.logger.Error().Err(err).Str("recipient", req.ToEmail).Msg("Error sending email")
		return fmt.Errorf("%w: %w", model.ErrInternal, err)
	}

	s.logger.Info().Str("recipient", req.ToEmail).Str("caller", caller.UID).Msg("email sent")
	return nil
}
