// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, models, knowledge)
// that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/knowledge"
	"github.com/JaimeStill/triage/pkg/database"
	"github.com/JaimeStill/triage/pkg/lifecycle"
	"github.com/JaimeStill/triage/pkg/middleware"
	"github.com/JaimeStill/triage/pkg/storage"
)

// MetricsNamespace prefixes every metric the service exports.
const MetricsNamespace = "triage"

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, index storage, the language model, and the
// knowledge catalog.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Model     llms.Model
	Embedder  embeddings.Embedder
	Builder   *knowledge.Builder
	Knowledge *knowledge.Catalog
	Registry  *prometheus.Registry

	categories []string
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return NewWithLogger(cfg, logger)
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	model, err := NewModel(&cfg.Agent)
	if err != nil {
		return nil, fmt.Errorf("model init failed: %w", err)
	}

	embedder, err := NewEmbedder(&cfg.Agent, cfg.Knowledge.QueryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db.Connection(), cfg.Database.Name),
	)

	return &Infrastructure{
		Lifecycle:  lifecycle.New(),
		Logger:     logger,
		Database:   db,
		Storage:    store,
		Model:      model,
		Embedder:   embedder,
		Builder:    knowledge.NewBuilder(&cfg.Knowledge, embedder, cfg.Agent.EmbeddingModel, store, logger),
		Knowledge:  knowledge.NewCatalog(),
		Registry:   reg,
		categories: cfg.Knowledge.Categories,
	}, nil
}

// NewLogger returns a text logger on stderr at the named level. Records
// logged with a request context carry its request_id.
func NewLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(middleware.NewLogHandler(handler)), nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database and storage hooks are registered for startup and shutdown coordination,
// followed by the knowledge hook that loads or builds every category index.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}

	i.Lifecycle.OnStartupE("knowledge", i.LoadKnowledge)
	return nil
}

// LoadKnowledge prepares storage, loads or builds every configured category
// index, and publishes the resulting Registry. Categories that fail are left
// unindexed and reported in the returned error; the Registry is published
// either way so the remaining categories serve.
func (i *Infrastructure) LoadKnowledge(ctx context.Context) error {
	if err := i.Storage.Prepare(ctx); err != nil {
		i.Knowledge.Set(knowledge.NewRegistry(i.Embedder))
		return err
	}

	reg, err := i.Builder.BuildAll(ctx, i.categories, false)
	i.Knowledge.Set(reg)

	i.Logger.InfoContext(ctx, "knowledge ready",
		"system", "knowledge",
		"indexed", len(reg.Categories()),
		"configured", len(i.categories),
	)
	return err
}
