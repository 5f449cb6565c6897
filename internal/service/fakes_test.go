package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/ilindan-dev/homemaster-mailer/internal/notifiers"
	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func testComposer() *notifiers.Composer {
	return notifiers.NewComposer(&config.Config{})
}

type fakeDirectory struct {
	recipients []model.Recipient
	err        error
	calls      int
}

func (d *fakeDirectory) ListRecipients(_ context.Context) ([]model.Recipient, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	out := make([]model.Recipient, len(d.recipients))
	copy(out, d.recipients)
	return out, nil
}

// fakeMailer records every envelope and fails for addresses in failFor.
type fakeMailer struct {
	mu      sync.Mutex
	sent    []model.Envelope
	failFor map[string]bool
	onSend  func()
}

func (m *fakeMailer) Send(_ context.Context, env model.Envelope) error {
	m.mu.Lock()
	m.sent = append(m.sent, env)
	hook := m.onSend
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	if m.failFor[env.To] {
		return errors.New("550 mailbox unavailable")
	}
	return nil
}

func (m *fakeMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, e := range m.sent {
		out = append(out, e.To)
	}
	return out
}

type fakeJobStore struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]model.BatchJob
	history []model.BatchJob
	err     error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: map[uuid.UUID]model.BatchJob{}}
}

func (s *fakeJobStore) Save(_ context.Context, job *model.BatchJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *job
	cp.Failures = append([]string(nil), job.Failures...)
	s.jobs[job.ID] = cp
	s.history = append(s.history, cp)
	return nil
}

func (s *fakeJobStore) Get(_ context.Context, id uuid.UUID) (*model.BatchJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &j, nil
}

type fakeQueue struct {
	published []*model.BatchJob
	err       error
}

func (q *fakeQueue) Publish(_ context.Context, job *model.BatchJob) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, job)
	return nil
}

// countingLimiter counts waits and fails from call failAt onwards when err is set.
type countingLimiter struct {
	mu     sync.Mutex
	waits  int
	failAt int
	err    error
}

func (l *countingLimiter) Wait(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.waits++
	if l.err != nil && l.waits >= l.failAt {
		return l.err
	}
	return nil
}

func (l *countingLimiter) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.waits
}
