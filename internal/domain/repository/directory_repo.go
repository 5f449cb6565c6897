package repository

import (
	"context"
	"errors"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidRecord is returned when the store rejects a record as malformed.
	ErrInvalidRecord = errors.New("invalid record")
)

// UserDirectory is the read side of the user store used by the dispatcher.
type UserDirectory interface {
	// ListRecipients returns a snapshot of every user that has an email address.
	// The order is whatever the backend returns.
	ListRecipients(ctx context.Context) ([]model.Recipient, error)
}

// UserWriter is the write side of the user store, used by the seeder.
type UserWriter interface {
	// Upsert creates or fully replaces the user identified by u.UID.
	Upsert(ctx context.Context, u *model.User) error
}

// UserStore combines both sides; every backend implements it.
type UserStore interface {
	UserDirectory
	UserWriter
}
