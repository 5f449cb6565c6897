// Package seed writes the fixed HomeMaster demo accounts into the user directory.
package seed

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Users returns the accounts created by the seeder, in creation order.
func Users() []model.User {
	notVerified := false
	return []model.User{
		{
			UID:   "user-id",
			Email: "user@example.com",
			Name:  "User Name",
			Role:  model.RoleHomeowner,
		},
		{
			UID:         "provider-id",
			Email:       "provider@example.com",
			Name:        "Provider Name",
			Role:        model.RoleProvider,
			ServiceType: "Plumbing",
			IsVerified:  &notVerified,
		},
		{
			UID:   "admin-id",
			Email: "admin@example.com",
			Name:  "Admin Name",
			Role:  model.RoleAdmin,
		},
	}
}

var roleLabels = map[model.Role]string{
	model.RoleHomeowner: "Homeowner",
	model.RoleProvider:  "Service Provider",
	model.RoleAdmin:     "Admin",
}

// schemaEnsurer is implemented by stores that must create their tables first.
type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// Seeder upserts the demo accounts.
type Seeder struct {
	writer repo.UserWriter
	logger zerolog.Logger
}

// NewSeeder creates a new Seeder.
func NewSeeder(writer repo.UserWriter, logger *zerolog.Logger) *Seeder {
	return &Seeder{
		writer: writer,
		logger: logger.With().Str("component", "seeder").Logger(),
	}
}

// Run writes every user in order and stops at the first failure.
func (s *Seeder) Run(ctx context.Context) error {
	if se, ok := s.writer.(schemaEnsurer); ok {
		if err := se.EnsureSchema(ctx); err != nil {
			s.logger.Error().Err(err).Msg("Error preparing user store")
			return err
		}
	}
	for _, u := range Users() {
		if err := s.writer.Upsert(ctx, &u); err != nil {
			s.logger.Error().Err(err).Str("uid", u.UID).Msg("Error creating users")
			return fmt.Errorf("seed %s: %w", u.UID, err)
		}
		s.logger.Info().Str("uid", u.UID).Msgf("%s created successfully", roleLabels[u.Role])
	}
	return nil
}
