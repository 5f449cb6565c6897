package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	"github.com/ilindan-dev/homemaster-mailer/internal/domain/model"
	repo "github.com/ilindan-dev/homemaster-mailer/internal/domain/repository"
	"github.com/ilindan-dev/homemaster-mailer/pkg/keybuilder"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"time"
)

// Ensure JobStore implements the interface
var _ repo.JobStore = (*JobStore)(nil)

// JobStore keeps batch jobs as JSON values that expire after the configured TTL.
type JobStore struct {
	redis  *goredis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewJobStore creates a new instance of the JobStore.
func NewJobStore(cfg *config.Config, logger *zerolog.Logger, redis *goredis.Client) *JobStore {
	ttl := cfg.Dispatch.JobTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JobStore{
		redis:  redis,
		ttl:    ttl,
		logger: logger.With().Str("layer", "redis_job_store").Logger(),
	}
}

// Save writes the job, refreshing its expiry.
func (s *JobStore) Save(ctx context.Context, job *model.BatchJob) error {
	key := keybuilder.RedisBatchJobKeyBuild(job.ID)
	body, err := json.Marshal(job)
	if err != nil {
		s.logger.Error().Err(err).Stringer("id", job.ID).Msg("failed to marshal batch job")
		return fmt.Errorf("failed to marshal batch job: %w", err)
	}

	if err := s.redis.Set(ctx, key, body, s.ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to set key in redis")
		return err
	}

	s.logger.Debug().Str("key", key).Str("status", string(job.Status)).Msg("batch job saved")
	return nil
}

// Get reads a job back.
func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.BatchJob, error) {
	key := keybuilder.RedisBatchJobKeyBuild(id)
	val, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, repo.ErrNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to get key from redis")
		return nil, err
	}

	var job model.BatchJob
	if err := json.Unmarshal(val, &job); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to unmarshal batch job")
		return nil, fmt.Errorf("failed to unmarshal batch job: %w", err)
	}
	return &job, nil
}
