package rabbitmq

import (
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"time"
)

// NewConnection creates and returns a raw amqp.Connection.
// This single connection will be shared across the application (producer and consumer).
func NewConnection(cfg *config.Config) (*amqp.Connection, error) {
	props := amqp.NewConnectionProperties()
	props.SetClientConnectionName("homemaster-mailer")

	conn, err := amqp.DialConfig(cfg.RabbitMQ.DSN, amqp.Config{
		Heartbeat:  10 * time.Second,
		Properties: props,
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: failed to connect: %w", err)
	}
	return conn, nil
}
