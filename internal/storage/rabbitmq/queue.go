package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Ensure BatchQueue implements the repository interface at compile time.
var _ repo.JobQueue = (*BatchQueue)(nil)

// Constants for our RabbitMQ topology.
const (
	BatchesExchange    = "batches.exchange"
	DeadLetterExchange = "batches.dlx"

	BatchesQueue    = "batches.queue.process"
	DeadLetterQueue = "batches.queue.dead"

	Direct = "direct"
)

// BatchQueue implements the JobQueue interface. It acts as a PUBLISHER.
type BatchQueue struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger zerolog.Logger
}

// NewBatchQueue creates a new instance of the BatchQueue publisher.
// It receives a shared amqp.Connection to create its own channel.
func NewBatchQueue(conn *amqp.Connection, logger *zerolog.Logger) (*BatchQueue, error) {
	channel, err := conn.Channel()
	if err != nil {
		logger.Error().Err(err).Msg("storage: rabbitMQ: New: Failed to open a channel")
		return nil, fmt.Errorf("storage: rabbitMQ: New: Failed to open a channel: %w", err)
	}

	queue := &BatchQueue{
		conn:   conn,
		ch:     channel,
		logger: logger.With().Str("component", "rabbitmq_publisher").Logger(),
	}

	if err = SetupTopology(channel); err != nil {
		queue.logger.Error().Err(err).Msg("storage: rabbitMQ: New: Failed to setup topology")
		return nil, fmt.Errorf("storage: rabbitMQ: New: Failed to setup topology: %w", err)
	}
	queue.logger.Info().Msg("rabbitmq topology setup successful")

	return queue, nil
}

// SetupTopology declares the exchanges and queues. Rejected messages end up in the dead letter queue.
// It is idempotent, so both the publisher and the consumer call it.
func SetupTopology(ch *amqp.Channel) error {
	for _, name := range []string{BatchesExchange, DeadLetterExchange} {
		if err := ch.ExchangeDeclare(name, Direct, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare exchange %s: %w", name, err)
		}
	}

	processArgs := amqp.Table{"x-dead-letter-exchange": DeadLetterExchange}
	if _, err := ch.QueueDeclare(BatchesQueue, true, false, false, false, processArgs); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", BatchesQueue, err)
	}
	if _, err := ch.QueueDeclare(DeadLetterQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", DeadLetterQueue, err)
	}

	if err := ch.QueueBind(BatchesQueue, "", BatchesExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to exchange %s: %w", BatchesQueue, BatchesExchange, err)
	}
	if err := ch.QueueBind(DeadLetterQueue, "", DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to exchange %s: %w", DeadLetterQueue, DeadLetterExchange, err)
	}
	return nil
}

// Publish hands a job to the worker.
func (q *BatchQueue) Publish(ctx context.Context, job *model.BatchJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		q.logger.Error().Err(err).Stringer("id", job.ID).Msg("failed to marshal batch job")
		return fmt.Errorf("failed to marshal batch job: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    job.ID.String(),
	}

	return q.ch.PublishWithContext(ctx, BatchesExchange, "", false, false, msg)
}

// Close gracefully shuts down the channel. The connection is managed by Fx.
func (q *BatchQueue) Close() error {
	if q.ch != nil {
		return q.ch.Close()
	}
	return nil
}
