package service

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/rs/zerolog"
	"time"
)

// JobService runs batch dispatches in the background and keeps their progress
// in the job store, so partial counts survive an interrupted worker.
type JobService struct {
	batch  *BatchService
	store  repo.JobStore
	queue  repo.JobQueue
	logger zerolog.Logger
}

// NewJobService creates a new JobService.
func NewJobService(batch *BatchService, store repo.JobStore, queue repo.JobQueue, logger *zerolog.Logger) *JobService {
	return &JobService{
		batch:  batch,
		store:  store,
		queue:  queue,
		logger: logger.With().Str("layer", "job_service").Logger(),
	}
}

// Enqueue stores a queued job and publishes it to the worker.
func (s *JobService) Enqueue(ctx context.Context, req model.BatchRequest, caller model.Caller) (*model.BatchJob, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}

	job := model.NewBatchJob(req.Message, caller.UID)
	if err := s.store.Save(ctx, job); err != nil {
		s.logger.Error().Err(err).Stringer("job_id", job.ID).Msg("failed to save batch job")
		return nil, fmt.Errorf("%w: save job: %w", model.ErrInternal, err)
	}

	if err := s.queue.Publish(ctx, job); err != nil {
		s.logger.Error().Err(err).Stringer("job_id", job.ID).Msg("CRITICAL: failed to publish batch job after saving")
		job.Status = model.JobFailed
		job.Error = "could not be queued"
		s.save(ctx, job)
		return nil, fmt.Errorf("%w: publish job: %w", model.ErrInternal, err)
	}

	s.logger.Info().Stringer("job_id", job.ID).Str("caller", caller.UID).Msg("batch job queued")
	return job, nil
}

// Get returns the job with its latest progress.
func (s *JobService) Get(ctx context.Context, id uuid.UUID, caller model.Caller) (*model.BatchJob, error) {
	if !caller.IsAuthenticated() {
		return nil, model.ErrUnauthenticated
	}
	job, err := s.store.Get(ctx, id)
	if err != nil {
		s.logger.Warn().Err(err).Stringer("job_id", id).Msg("can't get batch job")
		return nil, err
	}
	return job, nil
}

// Run executes a job, persisting progress after every recipient.
// The final status is written even if ctx has been cancelled.
func (s *JobService) Run(ctx context.Context, job *model.BatchJob) error {
	log := s.logger.With().Stringer("job_id", job.ID).Logger()

	job.Status = model.JobRunning
	s.save(ctx, job)

	req := model.BatchRequest{Message: job.Message}
	caller := model.Caller{UID: job.RequestedBy}

	result, err := s.batch.DispatchWithProgress(ctx, req, caller, func(ctx context.Context, res model.DispatchResult, r model.Recipient, sendErr error) {
		job.Result = res
		if sendErr != nil {
			job.RecordFailure(r.Email)
		}
		s.save(ctx, job)
	})

	switch {
	case err == nil:
		job.Status = model.JobCompleted
		job.Result = *result
	case result != nil:
		job.Status = model.JobInterrupted
		job.Result = *result
		job.Error = err.Error()
	default:
		job.Status = model.JobFailed
		job.Error = err.Error()
	}

	s.save(context.WithoutCancel(ctx), job)
	log.Info().
		Str("status", string(job.Status)).
		Int("sent", job.Result.SuccessCount).
		Int("failed", job.Result.FailureCount).
		Int("total", job.Result.TotalRecipients).
		Msg("batch job finished")
	return err
}

// save stores the job and only logs on failure; progress writes are best effort.
func (s *JobService) save(ctx context.Context, job *model.BatchJob) {
	job.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, job); err != nil {
		s.logger.Error().Err(err).Stringer("job_id", job.ID).Msg("failed to persist batch job progress")
	}
}
