package app

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	firebaseapp "github.com/ilindan-dev/homemaster-mailer/internal/platform/firebase"
	"github.com/ilindan-dev/homemaster-mailer/internal/storage/firestore"
	"github.com/ilindan-dev/homemaster-mailer/internal/storage/postgres"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// NewUserStore opens the backend selected by directory.backend and closes it on shutdown.
func NewUserStore(lc fx.Lifecycle, cfg *config.Config, fb *firebaseapp.Provider, logger *zerolog.Logger) (repo.UserStore, error) {
	logger.Info().Str("backend", cfg.Directory.Backend).Msg("initializing user directory")

	switch cfg.Directory.Backend {
	case "postgres", "":
		pool, err := postgres.NewPool(cfg)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(pool.Close))
		return postgres.NewUserDirectory(pool, logger), nil

	case "firestore":
		client, err := fb.Firestore(context.Background())
		if err != nil {
			return nil, err
		}
		lc.Append(fx.StopHook(client.Close))
		return firestore.NewUserDirectory(client, cfg.Directory.Collection, logger), nil

	default:
		return nil, fmt.Errorf("unknown directory backend: %s", cfg.Directory.Backend)
	}
}
