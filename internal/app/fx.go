package app

import (
	"context"
	"github.com/ilindan-dev/homemaster-mailer/internal/auth"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/consumer"
	deliveryHTTP "github.com/ilindan-dev/homemaster-mailer/internal/delivery/http"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/ilindan-dev/homemaster-mailer/internal/logger"
	"github.com/ilindan-dev/homemaster-mailer/internal/notifiers"
	firebaseapp "github.com/ilindan-dev/homemaster-mailer/internal/platform/firebase"
	"github.com/ilindan-dev/homemaster-mailer/internal/seed"
	"github.com/ilindan-dev/homemaster-mailer/internal/service"
	"github.com/ilindan-dev/homemaster-mailer/internal/storage/rabbitmq"
	"github.com/ilindan-dev/homemaster-mailer/internal/storage/redis"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"net/http"
)

// BaseModule provides configuration, logging and the user store.
var BaseModule = fx.Options(
	fx.Provide(
		config.NewConfig,
		logger.NewLogger,
		firebaseapp.NewProvider,
		NewUserStore,
		func(s repo.UserStore) repo.UserDirectory { return s },
		func(s repo.UserStore) repo.UserWriter { return s },
	),
)

// CommonModule provides dependencies that are shared between the API and Worker applications.
var CommonModule = fx.Options(
	BaseModule,
	fx.Provide(
		// Mail transport
		notifiers.NewMailer,
		notifiers.NewComposer,
		notifiers.NewSendLimiter,

		// Job storage and queue
		redis.NewClient,
		rabbitmq.NewConnection,
		fx.Annotate(redis.NewJobStore, fx.As(new(repo.JobStore))),
		rabbitmq.NewBatchQueue,
		func(q *rabbitmq.BatchQueue) repo.JobQueue { return q },

		// Service Layer
		service.NewBatchService,
		service.NewEmailService,
		service.NewJobService,
	),

	fx.Decorate(func(mailer notifiers.Mailer, cfg *config.Config, logger *zerolog.Logger) notifiers.Mailer {
		return notifiers.NewRetryingMailer(mailer, cfg.Dispatch.MaxAttempts, cfg.Dispatch.RetryBaseDelay, logger)
	}),

	fx.Invoke(func(lc fx.Lifecycle, client *goredis.Client, conn *amqp.Connection, queue *rabbitmq.BatchQueue) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				// The publisher channel goes before the connection it belongs to.
				_ = queue.Close()
				_ = client.Close()
				return conn.Close()
			},
		})
	}),
)

// APIModule defines the Fx module for the HTTP API application.
var APIModule = fx.Options(
	CommonModule, // Include all shared components
	fx.Provide(
		// API-specific components
		auth.NewVerifier,
		deliveryHTTP.NewHandlers,
		deliveryHTTP.NewServer,
	),

	fx.Invoke(func(server *deliveryHTTP.Server, lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						panic(err)
					}
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return server.Shutdown(ctx)
			},
		})
	}),
)

// WorkerModule defines the Fx module for the background worker application.
var WorkerModule = fx.Options(
	CommonModule, // Include all shared components
	fx.Provide(
		// Worker-specific components
		consumer.New,
	),
	fx.Invoke(func(consumer *consumer.Consumer, lc fx.Lifecycle) {
		// The OnStart context ends when startup completes, so the consumer gets its own.
		runCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					defer close(done)
					consumer.Start(runCtx)
				}()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				cancel()
				select {
				case <-done:
				case <-ctx.Done():
				}
				return nil
			},
		})
	}),
)

// SeedModule defines the Fx module for the seed command. Seeding runs during startup.
var SeedModule = fx.Options(
	BaseModule,
	fx.Provide(seed.NewSeeder),
	fx.Invoke(func(seeder *seed.Seeder, lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: seeder.Run,
		})
	}),
)
