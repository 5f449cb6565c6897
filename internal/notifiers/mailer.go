package notifiers

import (
	"context"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
)

// Mailer defines the interface for any mail transport.
// This allows us to swap SMTP for an HTTP provider or a log sink.
type Mailer interface {
	// Send delivers one composed message to one address.
	Send(ctx context.Context, env model.Envelope) error
}
