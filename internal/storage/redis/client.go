package redis

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/config"
	goredis "github.com/redis/go-redis/v9"
	"time"
)

const connectTimeout = 5 * time.Second

// NewClient creates a go-redis client and checks the connection.
func NewClient(cfg *config.Config) (*goredis.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", cfg.Redis.Addr, err)
	}
	return client, nil
}
