package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/ilindan-dev/homemaster-mailer/internal/service"
	"github.com/ilindan-dev/homemaster-mailer/internal/storage/rabbitmq"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"sync"
	"time"
)

// defaultWorkerCount is used when dispatch.workers is not set.
// Workers share the process-wide send limiter, so more workers do not send faster.
const defaultWorkerCount = 1

// Consumer listens to the batches queue and runs each job with a pool of workers.
type Consumer struct {
	logger      zerolog.Logger
	conn        *amqp.Connection // Raw connection to create channels for each worker.
	jobs        *service.JobService
	store       repo.JobStore
	workerCount int
}

// New creates a new instance of Consumer.
func New(
	cfg *config.Config,
	logger *zerolog.Logger,
	conn *amqp.Connection,
	jobs *service.JobService,
	store repo.JobStore,
) *Consumer {
	workers := cfg.Dispatch.Workers
	if workers <= 0 {
		workers = defaultWorkerCount
	}
	return &Consumer{
		logger:      logger.With().Str("component", "consumer").Logger(),
		conn:        conn,
		jobs:        jobs,
		store:       store,
		workerCount: workers,
	}
}

// Start launches the worker pool to process messages from the queue.
// This is a blocking method that will run until the context is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	c.logger.Info().Int("count", c.workerCount).Msg("Starting worker pool")
	var wg sync.WaitGroup

	for i := 0; i < c.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.runWorker(ctx, workerID)
		}(i + 1)
	}

	wg.Wait()
	c.logger.Info().Msg("Consumer stopped")
}

// runWorker contains the main logic for a single worker goroutine.
func (c *Consumer) runWorker(ctx context.Context, workerID int) {
	logger := c.logger.With().Int("worker_id", workerID).Logger()
	logger.Info().Msg("Worker started")

	ch, err := c.conn.Channel()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open channel for worker")
		return
	}
	defer ch.Close()

	if err := rabbitmq.SetupTopology(ch); err != nil {
		logger.Error().Err(err).Msg("Failed to declare topology")
		return
	}

	if err := ch.Qos(1, 0, false); err != nil {
		logger.Error().Err(err).Msg("Failed to set QoS")
		return
	}

	msgs, err := ch.Consume(
		rabbitmq.BatchesQueue,
		fmt.Sprintf("worker-%d", workerID), // A unique consumer tag.
		false,                              // autoAck: false. We will manually acknowledge messages.
		false,                              // exclusive
		false,                              // noLocal
		false,                              // noWait
		nil,                                // args
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to register a consumer")
		return
	}

	logger.Info().Msg("Worker is waiting for messages")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Worker stopping due to context cancellation")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn().Msg("Message channel closed by RabbitMQ, worker stopping")
				return
			}
			c.handleMessage(ctx, msg, logger)
		}
	}
}

// handleMessage runs a single batch job.
//
// The message is always acked once the job has been looked at: re-running a
// batch would email every recipient again, so a job is never attempted twice.
func (c *Consumer) handleMessage(ctx context.Context, msg amqp.Delivery, logger zerolog.Logger) {
	var queued model.BatchJob
	if err := json.Unmarshal(msg.Body, &queued); err != nil {
		logger.Error().Err(err).Msg("Failed to unmarshal message, dead-lettering")
		_ = msg.Nack(false, false)
		return
	}

	log := logger.With().Stringer("job_id", queued.ID).Logger()

	job, err := c.store.Get(ctx, queued.ID)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		// The progress record expired or was never written; the message is authoritative.
		log.Warn().Msg("Job record missing, running from message")
		job = &queued
	case err != nil:
		log.Error().Err(err).Msg("Failed to load job, requeueing")
		_ = msg.Nack(false, true)
		return
	}

	switch job.Status {
	case model.JobQueued:
	case model.JobRunning:
		log.Warn().Msg("Job was running when a worker stopped, marking interrupted")
		job.Status = model.JobInterrupted
		job.Error = "worker stopped before the batch finished"
		job.UpdatedAt = time.Now().UTC()
		if err := c.store.Save(ctx, job); err != nil {
			log.Error().Err(err).Msg("Failed to mark job interrupted")
		}
		_ = msg.Ack(false)
		return
	default:
		log.Warn().Str("status", string(job.Status)).Msg("Job is no longer queued, skipping")
		_ = msg.Ack(false)
		return
	}

	log.Info().Msg("Processing batch job")
	if err := c.jobs.Run(ctx, job); err != nil {
		log.Error().Err(err).Str("status", string(job.Status)).Msg("Batch job did not complete")
	}
	_ = msg.Ack(false)
}
