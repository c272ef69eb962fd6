package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/triage/internal/config"
	"github.com/JaimeStill/triage/internal/prompts"
	"github.com/JaimeStill/triage/internal/tickets"
	"github.com/JaimeStill/triage/pkg/openapi"
	"github.com/JaimeStill/triage/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) error {
	groups := domainGroups(domain)
	routes.Register(mux, groups...)

	specBytes, err := openapi.MarshalJSON(NewSpec(cfg, groups...))
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}

func domainGroups(domain *Domain) []routes.Group {
	return []routes.Group{
		domain.Tickets.Handler().Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Knowledge.routes(),
	}
}

// NewSpec builds the OpenAPI document for groups mounted under the
// configured base path.
func NewSpec(cfg *config.Config, groups ...routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.ServerFor(cfg.API.BasePath))

	spec.AddTag("Tickets", "Run tickets through classify, retrieve, draft, and review, and browse past outcomes.")
	spec.AddTag("Prompts", "Per-stage instruction overrides for the pipeline.")
	spec.AddTag("Knowledge", "Per-category knowledge indexes used for retrieval.")

	spec.Components.AddSchemas(tickets.Schemas())
	spec.Components.AddSchemas(prompts.Schemas())
	spec.Components.AddSchemas(knowledgeSchemas())

	routes.Describe(spec, "", groups...)
	return spec
}

// Spec builds the OpenAPI document without any backing systems, for
// offline generation.
func Spec(cfg *config.Config) *openapi.Spec {
	logger := slog.New(slog.DiscardHandler)
	maxBody := cfg.API.MaxBodySizeBytes()

	return NewSpec(cfg,
		tickets.NewHandler(nil, logger, cfg.API.Pagination, maxBody).Routes(),
		prompts.NewHandler(nil, logger, cfg.API.Pagination, maxBody).Routes(),
		newKnowledgeHandler(nil, logger, maxBody, cfg.Knowledge.TopK).routes(),
	)
}
