// Package database manages the PostgreSQL pool that backs ticket history
// and prompt overrides.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/triage/pkg/lifecycle"
)

// System manages database connections and lifecycle coordination.
type System interface {
	Connection() *sql.DB
	// Ping verifies the pool can reach the server within the configured
	// connection timeout.
	Ping(ctx context.Context) error
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

type database struct {
	pool    *sql.DB
	logger  *slog.Logger
	timeout time.Duration
	target  string
}

// New opens the pool and applies its limits. No connection is made until
// Ping or the first query.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	pool, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &database{
		pool:    pool,
		logger:  logger.With("system", "database"),
		timeout: cfg.ConnTimeoutDuration(),
		target:  fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name),
	}, nil
}

func (d *database) Connection() *sql.DB {
	return d.pool
}

func (d *database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.pool.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}

func (d *database) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartupE("database", func(ctx context.Context) error {
		start := time.Now()
		if err := d.Ping(ctx); err != nil {
			d.logger.Error("database unreachable", "target", d.target, "error", err)
			return err
		}
		d.logger.Info("database connected", "target", d.target, "elapsed", time.Since(start))
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		stats := d.pool.Stats()
		if err := d.pool.Close(); err != nil {
			d.logger.Error("database close failed", "error", err)
			return
		}
		d.logger.Info("database closed", "open", stats.OpenConnections, "wait_count", stats.WaitCount)
	})

	return nil
}
