package postgres

import (
	"errors"
	"testing"

	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	check := mapError("Upsert", &pgconn.PgError{Code: pgerrcode.CheckViolation, Message: "bad role"})
	assert.ErrorIs(t, check, repo.ErrInvalidRecord)
	assert.Contains(t, check.Error(), "bad role")

	missing := &pgconn.PgError{Code: pgerrcode.UndefinedTable}
	err := mapError("ListRecipients", missing)
	assert.ErrorIs(t, err, missing)
	assert.Contains(t, err.Error(), "seed")

	plain := errors.New("conn reset")
	err = mapError("ListRecipients", plain)
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, repo.ErrInvalidRecord)
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS users")
}
