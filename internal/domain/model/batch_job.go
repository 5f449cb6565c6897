package model

import (
	"github.com/google/uuid"
	"time"
)

// JobStatus represents the current state of an asynchronous batch.
type JobStatus string

const (
	JobQueued      JobStatus = "queued"      // Accepted, waiting for a worker.
	JobRunning     JobStatus = "running"     // A worker is sending.
	JobCompleted   JobStatus = "completed"   // Every recipient was attempted.
	JobFailed      JobStatus = "failed"      // The recipient list could not be loaded.
	JobInterrupted JobStatus = "interrupted" // The worker stopped mid-batch; Result holds partial counts.
)

// MaxRecordedFailures caps BatchJob.Failures.
const MaxRecordedFailures = 200

// BatchJob is a batch dispatch run by the worker, with its progress.
type BatchJob struct {
	ID          uuid.UUID
	Message     string
	RequestedBy string
	Status      JobStatus
	Result      DispatchResult
	Failures    []string // Addresses whose send failed, capped at MaxRecordedFailures.
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBatchJob is a factory function for a freshly queued job.
func NewBatchJob(message, requestedBy string) *BatchJob {
	now := time.Now().UTC()
	return &BatchJob{
		ID:          uuid.New(),
		Message:     message,
		RequestedBy: requestedBy,
		Status:      JobQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RecordFailure remembers a failed address while there is room.
func (j *BatchJob) RecordFailure(email string) {
	if len(j.Failures) < MaxRecordedFailures {
		j.Failures = append(j.Failures, email)
	}
}

// Finished reports whether the job reached a terminal status.
func (j *BatchJob) Finished() bool {
	switch j.Status {
	case JobCompleted, JobFailed, JobInterrupted:
		return true
	}
	return false
}
