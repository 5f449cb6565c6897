package repository

import (
	"context"
	"github.com/google/uuid"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
)

// JobStore persists batch jobs and their progress.
type JobStore interface {
	// Save creates or overwrites the job.
	Save(ctx context.Context, job *model.BatchJob) error

	// Get retrieves a job by its unique ID.
	Get(ctx context.Context, id uuid.UUID) (*model.BatchJob, error)
}

// JobQueue hands batch jobs to the worker.
type JobQueue interface {
	// Publish enqueues a job for processing.
	Publish(ctx context.Context, job *model.BatchJob) error
}
