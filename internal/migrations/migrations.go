// Package migrations embeds the schema for ticket history and prompt
// overrides and applies it with golang-migrate.
package migrations

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
)

//go:embed sql/*.sql
var files embed.FS

// Files returns the embedded migration files rooted at their directory.
func Files() fs.FS {
	sub, _ := fs.Sub(files, "sql")
	return sub
}

// Version is the schema version recorded in the database.
type Version struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func (v Version) String() string {
	if v.Version == 0 {
		return "none"
	}
	if v.Dirty {
		return fmt.Sprintf("%d (dirty)", v.Version)
	}
	return fmt.Sprintf("%d", v.Version)
}

// Migrator applies the embedded migrations to one database.
type Migrator struct {
	m *migrate.Migrate
}

// New connects to the postgres:// URL dsn.
func New(dsn string, logger *slog.Logger) (*Migrator, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	m.Log = &migrateLogger{logger: logger.With("system", "migrations")}

	return &Migrator{m: m}, nil
}

// Up applies every pending migration. An up-to-date schema is not an error.
func (m *Migrator) Up() error {
	return ignoreNoChange(m.m.Up(), "up")
}

// Down reverts every applied migration.
func (m *Migrator) Down() error {
	return ignoreNoChange(m.m.Down(), "down")
}

// Steps applies n migrations, reverting when n is negative.
func (m *Migrator) Steps(n int) error {
	if n == 0 {
		return errors.New("steps must be non-zero")
	}
	return ignoreNoChange(m.m.Steps(n), fmt.Sprintf("steps %d", n))
}

// Force records v as the current version without running any migration,
// clearing the dirty flag left by a failed run.
func (m *Migrator) Force(v int) error {
	if err := m.m.Force(v); err != nil {
		return fmt.Errorf("force %d: %w", v, err)
	}
	return nil
}

// Version reports the current schema version; zero when nothing is applied.
func (m *Migrator) Version() (Version, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Version{}, nil
	}
	if err != nil {
		return Version{}, fmt.Errorf("read version: %w", err)
	}
	return Version{Version: v, Dirty: dirty}, nil
}

// Close releases the source and database connections.
func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}

func ignoreNoChange(err error, op string) error {
	if err == nil || errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return fmt.Errorf("migrate %s: %w", op, err)
}

// migrateLogger adapts migrate.Logger to slog.
type migrateLogger struct {
	logger *slog.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.logger.Enabled(context.Background(), slog.LevelDebug)
}
