package postgres

import (
	"context"
	"errors"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Ensure UserDirectory implements the interface
var _ repo.UserStore = (*UserDirectory)(nil)

const (
	listRecipientsSQL = `SELECT email FROM users WHERE email IS NOT NULL AND email <> ''`

	upsertUserSQL = `
INSERT INTO users (uid, email, name, role, service_type, is_verified, created_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (uid) DO UPDATE SET
    email        = EXCLUDED.email,
    name         = EXCLUDED.name,
    role         = EXCLUDED.role,
    service_type = EXCLUDED.service_type,
    is_verified  = EXCLUDED.is_verified,
    created_at   = EXCLUDED.created_at`
)

// UserDirectory implements the user store on PostgreSQL.
type UserDirectory struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserDirectory creates a new instance of the UserDirectory.
func NewUserDirectory(pool *pgxpool.Pool, logger *zerolog.Logger) *UserDirectory {
	return &UserDirectory{
		pool:   pool,
		logger: logger.With().Str("layer", "postgres_directory").Logger(),
	}
}

// EnsureSchema creates the users table if needed.
func (d *UserDirectory) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, d.pool)
}

// ListRecipients returns every user with a non-empty email, in table order.
func (d *UserDirectory) ListRecipients(ctx context.Context) ([]model.Recipient, error) {
	rows, err := d.pool.Query(ctx, listRecipientsSQL)
	if err != nil {
		d.logger.Err(err).Str("method", "ListRecipients").Msg("cannot query recipients")
		return nil, mapError("ListRecipients", err)
	}

	emails, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		d.logger.Err(err).Str("method", "ListRecipients").Msg("cannot scan recipients")
		return nil, mapError("ListRecipients", err)
	}

	recipients := make([]model.Recipient, 0, len(emails))
	for _, e := range emails {
		recipients = append(recipients, model.Recipient{Email: e})
	}
	return recipients, nil
}

// Upsert creates or replaces the user row, resetting created_at like a document overwrite.
func (d *UserDirectory) Upsert(ctx context.Context, u *model.User) error {
	var serviceType *string
	if u.ServiceType != "" {
		serviceType = &u.ServiceType
	}
	var email *string
	if u.Email != "" {
		email = &u.Email
	}

	_, err := d.pool.Exec(ctx, upsertUserSQL, u.UID, email, u.Name, string(u.Role), serviceType, u.IsVerified)
	if err != nil {
		d.logger.Err(err).Str("uid", u.UID).Msg("cannot upsert user")
		return mapError("Upsert", err)
	}
	return nil
}

// mapError translates PostgreSQL error codes into repository errors.
func mapError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("postgres: %s: %w: %s", op, repo.ErrInvalidRecord, pgErr.Message)
		case pgerrcode.UndefinedTable:
			return fmt.Errorf("postgres: %s: users table is missing, run the seed command: %w", op, err)
		}
	}
	return fmt.Errorf("postgres: %s failed: %w", op, err)
}
