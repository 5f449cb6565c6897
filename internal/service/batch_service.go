package service

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/ilindan-dev/homemaster-mailer/internal/notifiers"
	"github.com/rs/zerolog"
)

// ProgressFunc is called after each recipient is attempted.
// sendErr is nil when the send succeeded.
type ProgressFunc func(ctx context.Context, result model.DispatchResult, recipient model.Recipient, sendErr error)

// BatchService delivers one announcement to every recipient in the user directory.
type BatchService struct {
	directory repo.UserDirectory
	mailer    notifiers.Mailer
	composer  *notifiers.Composer
	limiter   notifiers.Limiter
	logger    zerolog.Logger
}

// NewBatchService creates a new BatchService.
// The limiter is shared with every other batch running in the process.
func NewBatchService(
	directory repo.UserDirectory,
	mailer notifiers.Mailer,
	composer *notifiers.Composer,
	limiter notifiers.Limiter,
	logger *zerolog.Logger,
) *BatchService {
	return &BatchService{
		directory: directory,
		mailer:    mailer,
		composer:  composer,
		limiter:   limiter,
		logger:    logger.With().Str("layer", "batch_service").Logger(),
	}
}

// Dispatch sends req.Message to every recipient and returns the aggregate counts.
func (s *BatchService) Dispatch(ctx context.Context, req model.BatchRequest, caller model.Caller) (*model.DispatchResult, error) {
	return s.DispatchWithProgress(ctx, req, caller, nil)
}

// DispatchWithProgress is Dispatch with a callback after every recipient.
//
// Recipients are processed one at a time in directory order. The message is free
// text and may be empty. A failed send is
// logged and counted, never returned. If the directory cannot be read, nothing
// is sent and no result is returned. If ctx ends mid-batch, the partial result
// is returned together with the error.
func (s *BatchService) DispatchWithProgress(ctx context.Context, req model.BatchRequest, caller model.Caller, progress ProgressFunc) (*model.DispatchResult, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}

	log := s.logger.With().Str("caller", caller.UID).Logger()

	snapshot, err := s.directory.ListRecipients(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error in batch send: failed to list recipients")
		return nil, fmt.Errorf("%w: list recipients: %w", model.ErrInternal, err)
	}

	recipients := make([]model.Recipient, 0, len(snapshot))
	for _, r := range snapshot {
		if r.Deliverable() {
			recipients = append(recipients, r)
		}
	}

	result := &model.DispatchResult{TotalRecipients: len(recipients)}
	content := s.composer.Compose(req.Message)
	log.Info().Int("recipients", result.TotalRecipients).Msg("starting batch send")

	for _, r := range recipients {
		if err := s.limiter.Wait(ctx); err != nil {
			log.Warn().
				Err(err).
				Int("sent", result.SuccessCount).
				Int("failed", result.FailureCount).
				Int("total", result.TotalRecipients).
				Msg("batch send interrupted")
			return result, fmt.Errorf("%w: batch interrupted: %w", model.ErrInternal, err)
		}

		sendErr := s.mailer.Send(ctx, model.Envelope{To: r.Email, EmailContent: content})
		if sendErr != nil {
			log.Error().Err(sendErr).Str("recipient", r.Email).Msg("failed to send")
			result.FailureCount++
		} else {
			result.SuccessCount++
		}

		if progress != nil {
			progress(ctx, *result, r, sendErr)
		}
	}

	log.Info().
		Int("sent", result.SuccessCount).
		Int("failed", result.FailureCount).
		Int("total", result.TotalRecipients).
		Msg("batch send finished")

	return result, nil
}
