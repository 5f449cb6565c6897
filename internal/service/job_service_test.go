package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJobs(dir *fakeDirectory, mailer *fakeMailer, store *fakeJobStore, queue *fakeQueue) *JobService {
	return NewJobService(newBatch(dir, mailer), store, queue, testLogger())
}

func TestJobService_Enqueue(t *testing.T) {
	store, queue := newFakeJobStore(), &fakeQueue{}
	svc := newJobs(&fakeDirectory{}, &fakeMailer{}, store, queue)

	job, err := svc.Enqueue(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	require.NoError(t, err)

	assert.Equal(t, model.JobQueued, job.Status)
	assert.Equal(t, "admin-id", job.RequestedBy)
	require.Len(t, queue.published, 1)
	assert.Equal(t, job.ID, queue.published[0].ID)

	stored, err := svc.Get(context.Background(), job.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Message)
}

func TestJobService_EnqueueRejectsAnonymous(t *testing.T) {
	store, queue := newFakeJobStore(), &fakeQueue{}
	svc := newJobs(&fakeDirectory{}, &fakeMailer{}, store, queue)

	_, err := svc.Enqueue(context.Background(), model.BatchRequest{Message: "hello"}, model.Caller{})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	assert.Empty(t, store.jobs)
	assert.Empty(t, queue.published)
}

func TestJobService_EnqueuePublishFailureMarksJobFailed(t *testing.T) {
	store, queue := newFakeJobStore(), &fakeQueue{err: errors.New("channel closed")}
	svc := newJobs(&fakeDirectory{}, &fakeMailer{}, store, queue)

	_, err := svc.Enqueue(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	assert.ErrorIs(t, err, model.ErrInternal)

	require.Len(t, store.jobs, 1)
	for _, j := range store.jobs {
		assert.Equal(t, model.JobFailed, j.Status)
	}
}

func TestJobService_GetUnknown(t *testing.T) {
	svc := newJobs(&fakeDirectory{}, &fakeMailer{}, newFakeJobStore(), &fakeQueue{})

	_, err := svc.Get(context.Background(), uuid.New(), admin)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = svc.Get(context.Background(), uuid.New(), model.Caller{})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestJobService_RunCompletes(t *testing.T) {
	store := newFakeJobStore()
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com", "c@example.com")}
	mailer := &fakeMailer{failFor: map[string]bool{"b@example.com": true}}
	svc := newJobs(dir, mailer, store, &fakeQueue{})

	job := model.NewBatchJob("hello", "admin-id")
	require.NoError(t, svc.Run(context.Background(), job))

	stored, err := store.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.JobCompleted, stored.Status)
	assert.Equal(t, model.DispatchResult{TotalRecipients: 3, SuccessCount: 2, FailureCount: 1}, stored.Result)
	assert.Equal(t, []string{"b@example.com"}, stored.Failures)

	// running + one write per recipient + final
	assert.Len(t, store.history, 5)
	assert.Equal(t, model.JobRunning, store.history[0].Status)
	assert.Equal(t, 1, store.history[1].Result.Processed())
}

func TestJobService_RunDirectoryFailure(t *testing.T) {
	store := newFakeJobStore()
	svc := newJobs(&fakeDirectory{err: errors.New("timeout")}, &fakeMailer{}, store, &fakeQueue{})

	job := model.NewBatchJob("hello", "admin-id")
	err := svc.Run(context.Background(), job)
	assert.ErrorIs(t, err, model.ErrInternal)

	stored, _ := store.Get(context.Background(), job.ID)
	assert.Equal(t, model.JobFailed, stored.Status)
	assert.NotEmpty(t, stored.Error)
}

func TestJobService_RunInterruptedKeepsPartialCounts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newFakeJobStore()
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com", "c@example.com")}
	mailer := &fakeMailer{}
	mailer.onSend = func() { cancel() }
	svc := newJobs(dir, mailer, store, &fakeQueue{})

	job := model.NewBatchJob("hello", "admin-id")
	err := svc.Run(ctx, job)
	assert.ErrorIs(t, err, context.Canceled)

	stored, _ := store.Get(context.Background(), job.ID)
	assert.Equal(t, model.JobInterrupted, stored.Status)
	assert.Equal(t, model.DispatchResult{TotalRecipients: 3, SuccessCount: 1}, stored.Result)
}
