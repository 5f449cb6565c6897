package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	"github.com/ilindan-dev/homemaster-mailer/internal/notifiers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = model.Caller{UID: "admin-id"}

func newBatch(dir *fakeDirectory, mailer *fakeMailer) *BatchService {
	return NewBatchService(dir, mailer, testComposer(), notifiers.Unlimited(), testLogger())
}

func recipients(emails ...string) []model.Recipient {
	out := make([]model.Recipient, 0, len(emails))
	for _, e := range emails {
		out = append(out, model.Recipient{Email: e})
	}
	return out
}

func TestDispatch_AllSucceed(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com", "c@example.com")}
	mailer := &fakeMailer{}

	res, err := newBatch(dir, mailer).Dispatch(context.Background(), model.BatchRequest{Message: "Hi\nBye"}, admin)
	require.NoError(t, err)

	assert.Equal(t, model.DispatchResult{TotalRecipients: 3, SuccessCount: 3}, *res)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com", "c@example.com"}, mailer.recipients())
	for _, env := range mailer.sent {
		assert.Equal(t, "HomeMaster Announcement", env.Subject)
		assert.Equal(t, "Hi\nBye", env.Text)
		assert.Equal(t, "Hi<br>Bye", env.HTML)
	}
}

func TestDispatch_FailureDoesNotAbortBatch(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com")}
	mailer := &fakeMailer{failFor: map[string]bool{"a@example.com": true}}

	res, err := newBatch(dir, mailer).Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	require.NoError(t, err)

	assert.Equal(t, model.DispatchResult{TotalRecipients: 2, SuccessCount: 1, FailureCount: 1}, *res)
	assert.Contains(t, mailer.recipients(), "b@example.com")
	assert.True(t, res.Complete())
}

func TestDispatch_CountsAlwaysAddUp(t *testing.T) {
	emails := []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io", "f@x.io"}
	fails := map[string]bool{"b@x.io": true, "e@x.io": true, "f@x.io": true}

	res, err := newBatch(&fakeDirectory{recipients: recipients(emails...)}, &fakeMailer{failFor: fails}).
		Dispatch(context.Background(), model.BatchRequest{Message: "m"}, admin)
	require.NoError(t, err)

	assert.Equal(t, len(emails), res.TotalRecipients)
	assert.Equal(t, res.TotalRecipients, res.SuccessCount+res.FailureCount)
	assert.Equal(t, 3, res.FailureCount)
}

func TestDispatch_Unauthenticated(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com")}
	mailer := &fakeMailer{}

	res, err := newBatch(dir, mailer).Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, model.Caller{})
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.Nil(t, res)
	assert.Zero(t, dir.calls)
	assert.Empty(t, mailer.sent)
}

func TestDispatch_EmptyMessageIsSent(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com")}
	mailer := &fakeMailer{}

	res, err := newBatch(dir, mailer).Dispatch(context.Background(), model.BatchRequest{}, admin)
	require.NoError(t, err)
	assert.Equal(t, model.DispatchResult{TotalRecipients: 1, SuccessCount: 1}, *res)
	require.Len(t, mailer.sent, 1)
	assert.Empty(t, mailer.sent[0].Text)
	assert.Empty(t, mailer.sent[0].HTML)
}

func TestDispatch_DirectoryFailure(t *testing.T) {
	dirErr := errors.New("connection refused")
	dir := &fakeDirectory{err: dirErr}
	mailer := &fakeMailer{}

	res, err := newBatch(dir, mailer).Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	assert.ErrorIs(t, err, model.ErrInternal)
	assert.ErrorIs(t, err, dirErr)
	assert.Nil(t, res)
	assert.Empty(t, mailer.sent)
}

func TestDispatch_SkipsRecipientsWithoutEmail(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com", "", "   ", "b@example.com")}
	mailer := &fakeMailer{}

	res, err := newBatch(dir, mailer).Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	require.NoError(t, err)

	assert.Equal(t, 2, res.TotalRecipients)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, mailer.recipients())
}

func TestDispatch_EmptyDirectory(t *testing.T) {
	res, err := newBatch(&fakeDirectory{}, &fakeMailer{}).
		Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	require.NoError(t, err)
	assert.Equal(t, model.DispatchResult{}, *res)
}

func TestDispatch_RepeatedRunsAreIndependent(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com")}
	mailer := &fakeMailer{failFor: map[string]bool{"b@example.com": true}}
	svc := newBatch(dir, mailer)
	req := model.BatchRequest{Message: "hello"}

	first, err := svc.Dispatch(context.Background(), req, admin)
	require.NoError(t, err)
	second, err := svc.Dispatch(context.Background(), req, admin)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, *first, *second)
	assert.Len(t, mailer.sent, 4)
}

func TestDispatch_CancelledMidBatchReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com", "c@example.com")}
	mailer := &fakeMailer{}
	mailer.onSend = func() {
		if len(mailer.sent) == 2 {
			cancel()
		}
	}

	res, err := newBatch(dir, mailer).Dispatch(ctx, model.BatchRequest{Message: "hello"}, admin)
	assert.ErrorIs(t, err, model.ErrInternal)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, model.DispatchResult{TotalRecipients: 3, SuccessCount: 2}, *res)
	assert.False(t, res.Complete())
}

func TestDispatch_ReportsProgress(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com")}
	mailer := &fakeMailer{failFor: map[string]bool{"a@example.com": true}}

	var seen []model.DispatchResult
	var failed []string
	_, err := newBatch(dir, mailer).DispatchWithProgress(context.Background(), model.BatchRequest{Message: "m"}, admin,
		func(_ context.Context, res model.DispatchResult, r model.Recipient, sendErr error) {
			seen = append(seen, res)
			if sendErr != nil {
				failed = append(failed, r.Email)
			}
		})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].Processed())
	assert.Equal(t, 2, seen[1].Processed())
	assert.Equal(t, []string{"a@example.com"}, failed)
}

func TestDispatch_WaitsOnLimiterBeforeEachSend(t *testing.T) {
	dir := &fakeDirectory{recipients: recipients("a@example.com", "", "b@example.com", "c@example.com")}
	mailer := &fakeMailer{failFor: map[string]bool{"b@example.com": true}}
	limiter := &countingLimiter{}
	mailer.onSend = func() {
		// Every send is preceded by exactly one wait.
		assert.Equal(t, len(mailer.sent), limiter.count())
	}

	svc := NewBatchService(dir, mailer, testComposer(), limiter, testLogger())
	res, err := svc.Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalRecipients)
	assert.Equal(t, 3, limiter.count(), "one wait per deliverable recipient, none after the last")
}

func TestDispatch_NoLimiterWaitWithoutSends(t *testing.T) {
	tests := []struct {
		name string
		dir  *fakeDirectory
	}{
		{name: "empty directory", dir: &fakeDirectory{}},
		{name: "only blank emails", dir: &fakeDirectory{recipients: recipients("", " ")}},
		{name: "directory failure", dir: &fakeDirectory{err: errors.New("unavailable")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := &countingLimiter{}
			svc := NewBatchService(tt.dir, &fakeMailer{}, testComposer(), limiter, testLogger())
			_, _ = svc.Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)
			assert.Zero(t, limiter.count())
		})
	}
}

func TestDispatch_LimiterErrorStopsBatch(t *testing.T) {
	waitErr := errors.New("rate: Wait(n=1) would exceed context deadline")
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com")}
	mailer := &fakeMailer{}
	limiter := &countingLimiter{failAt: 1, err: waitErr}

	svc := NewBatchService(dir, mailer, testComposer(), limiter, testLogger())
	res, err := svc.Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)

	assert.ErrorIs(t, err, model.ErrInternal)
	assert.ErrorIs(t, err, waitErr)
	require.NotNil(t, res)
	assert.Equal(t, model.DispatchResult{TotalRecipients: 2}, *res)
	assert.Empty(t, mailer.sent)
	assert.Equal(t, 1, limiter.count())
}

func TestDispatch_LimiterErrorMidBatchKeepsCounts(t *testing.T) {
	waitErr := errors.New("limiter closed")
	dir := &fakeDirectory{recipients: recipients("a@example.com", "b@example.com", "c@example.com")}
	mailer := &fakeMailer{}
	limiter := &countingLimiter{failAt: 3, err: waitErr}

	svc := NewBatchService(dir, mailer, testComposer(), limiter, testLogger())
	res, err := svc.Dispatch(context.Background(), model.BatchRequest{Message: "hello"}, admin)

	assert.ErrorIs(t, err, waitErr)
	require.NotNil(t, res)
	assert.Equal(t, model.DispatchResult{TotalRecipients: 3, SuccessCount: 2}, *res)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.recipients())
}
