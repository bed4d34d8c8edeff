// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Authkit Contributors

package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

type connectConfig struct {
	maxRetries uint64
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     *slog.Logger
}

// ConnectOption configures Connect.
type ConnectOption func(*connectConfig)

// WithMaxRetries bounds the number of failed pings before Connect gives up.
func WithMaxRetries(n uint64) ConnectOption {
	return func(c *connectConfig) {
		c.maxRetries = n
	}
}

// WithBackoff sets the initial and maximum delay between pings.
func WithBackoff(base, maxDelay time.Duration) ConnectOption {
	return func(c *connectConfig) {
		c.baseDelay = base
		c.maxDelay = maxDelay
	}
}

// WithConnectLogger sets the logger used to report failed pings.
func WithConnectLogger(logger *slog.Logger) ConnectOption {
	return func(c *connectConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Connect opens a pgx pool for databaseURL and pings it with exponential
// backoff until the database answers or the retry budget is spent.
func Connect(ctx context.Context, databaseURL string, opts ...ConnectOption) (*pgxpool.Pool, error) {
	cfg := connectConfig{
		maxRetries: 5,
		baseDelay:  250 * time.Millisecond,
		maxDelay:   5 * time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").Wrap(err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").Wrap(err)
	}

	backoff := retry.WithMaxRetries(cfg.maxRetries,
		retry.WithCappedDuration(cfg.maxDelay, retry.NewExponential(cfg.baseDelay)))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			cfg.logger.WarnContext(ctx, "database not ready",
				"attempt", attempt,
				"host", poolCfg.ConnConfig.Host,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("DB_UNAVAILABLE").
			With("attempts", attempt).
			With("host", poolCfg.ConnConfig.Host).
			Wrap(err)
	}
	return pool, nil
}
