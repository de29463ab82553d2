package redis

import (
	"context"
	"fmt"
	"time"

	berr "github.com/next-trace/scg-component-bus/contract/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewWithRedis connects to Redis, verifies the connection with PING and
// returns an Adapter and a cleanup closing the client.
func NewWithRedis(ctx context.Context, cfg Config) (*Adapter, func(), error) {
	if cfg.Addr == "" {
		return nil, nil, fmt.Errorf("%w: redis addr required", berr.ErrExporterNotConfigured)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, nil, fmt.Errorf("%w: redis ping: %w", berr.ErrExportFailed, err)
	}

	cleanup := func() { _ = client.Close() }

	return New(client), cleanup, nil
}
