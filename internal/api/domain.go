package api

import (
	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/infrastructure"
	"github.com/JaimeStill/triage/internal/prompts"
	"github.com/JaimeStill/triage/internal/tickets"
	"github.com/JaimeStill/triage/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts   prompts.System
	Tickets   tickets.System
	Knowledge *knowledgeHandler
}

// NewDomain creates all domain systems from the API runtime. Prompt
// overrides feed the pipeline as its instruction source.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
		runtime.MaxBody,
	)

	pipeline := NewPipeline(runtime.Infrastructure, cfg, promptsSystem)

	ticketsSystem := tickets.New(
		runtime.Database.Connection(),
		pipeline,
		runtime.Logger,
		runtime.Pagination,
		runtime.MaxBody,
	)

	return &Domain{
		Prompts:   promptsSystem,
		Tickets:   ticketsSystem,
		Knowledge: newKnowledgeHandler(runtime.Knowledge, runtime.Logger, runtime.MaxBody, cfg.Knowledge.TopK),
	}
}

// NewPipeline assembles the workflow runtime from infrastructure: the
// configured model, the knowledge catalog as retriever, src as the
// instruction source, and pipeline metrics on the shared registry.
func NewPipeline(infra *infrastructure.Infrastructure, cfg *config.Config, src prompts.Source) *workflow.Runtime {
	return &workflow.Runtime{
		Generator:    workflow.NewModelGenerator(infra.Model),
		Retriever:    infra.Knowledge,
		Prompts:      src,
		Logger:       infra.Logger.With("system", "workflow"),
		Metrics:      workflow.NewMetrics(infra.Registry, infrastructure.MetricsNamespace),
		Temperatures: cfg.Agent.Temperatures(),
		TopK:         cfg.Knowledge.TopK,
		Timeout:      cfg.Agent.TimeoutDuration(),
	}
}
