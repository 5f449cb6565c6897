package notifiers

import (
	"context"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/rs/zerolog"
	"time"
)

// Ensure RetryingMailer implements the interface
var _ Mailer = (*RetryingMailer)(nil)

// RetryingMailer is a decorator for a Mailer that retries failed sends
// with exponential backoff.
type RetryingMailer struct {
	next        Mailer
	maxAttempts int
	baseDelay   time.Duration
	logger      zerolog.Logger
}

// NewRetryingMailer wraps next. maxAttempts below 1 is treated as 1 (no retry).
func NewRetryingMailer(next Mailer, maxAttempts int, baseDelay time.Duration, logger *zerolog.Logger) *RetryingMailer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingMailer{
		next:        next,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      logger.With().Str("component", "retrying_mailer").Logger(),
	}
}

// Send tries the wrapped mailer up to maxAttempts times and returns the last error.
func (m *RetryingMailer) Send(ctx context.Context, env model.Envelope) error {
	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		if err = m.next.Send(ctx, env); err == nil {
			return nil
		}
		if attempt == m.maxAttempts {
			break
		}

		delay := backoff(m.baseDelay, attempt)
		m.logger.Warn().
			Err(err).
			Str("recipient", env.To).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("send failed, scheduling retry")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
