package notifiers

import (
	"context"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"golang.org/x/time/rate"
	"time"
)

// Limiter paces outgoing sends. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// NewSendLimiter returns the process-wide limiter: one send per dispatch.send_interval, burst 1.
// Waiting happens before a send, so the last recipient of a batch is not followed by a pause.
func NewSendLimiter(cfg *config.Config) Limiter {
	interval := cfg.Dispatch.SendInterval
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Unlimited never blocks. Used where pacing is handled elsewhere.
func Unlimited() Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// backoff is the delay before retry number attempt (1-based): base * 2^(attempt-1).
func backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base << (attempt - 1)
}
