package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/triage/internal/knowledge"
	"github.com/JaimeStill/triage/pkg/handlers"
	"github.com/JaimeStill/triage/pkg/openapi"
	"github.com/JaimeStill/triage/pkg/routes"
)

// QueryRequest is the body of a raw knowledge retrieval.
type QueryRequest struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	K        int    `json:"k,omitempty"`
}

type knowledgeHandler struct {
	catalog *knowledge.Catalog
	logger  *slog.Logger
	maxBody int64
	topK    int
}

func newKnowledgeHandler(
	catalog *knowledge.Catalog,
	logger *slog.Logger,
	maxBody int64,
	topK int,
) *knowledgeHandler {
	return &knowledgeHandler{
		catalog: catalog,
		logger:  logger.With("handler", "knowledge"),
		maxBody: maxBody,
		topK:    topK,
	}
}

func (h *knowledgeHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/knowledge",
		Tags:   []string{"Knowledge"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.list, OpenAPI: knowledgeListOp},
			{Method: "POST", Pattern: "/query", Handler: h.query, OpenAPI: knowledgeQueryOp},
		},
	}
}

func (h *knowledgeHandler) list(w http.ResponseWriter, r *http.Request) {
	if !h.catalog.Ready() {
		handlers.RespondError(w, h.logger, http.StatusServiceUnavailable, knowledge.ErrNotLoaded)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.catalog.Categories())
}

func (h *knowledgeHandler) query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := handlers.DecodeJSON(w, r, h.maxBody, &req); err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), err)
		return
	}

	k := req.K
	if k <= 0 {
		k = h.topK
	}

	matches, err := h.catalog.Search(r.Context(), req.Category, req.Text, k)
	if err != nil {
		handlers.RespondError(w, h.logger, knowledge.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, matches)
}

func knowledgeSchemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"KnowledgeSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"category":  {Type: "string"},
				"chunks":    {Type: "integer"},
				"dimension": {Type: "integer"},
				"model":     {Type: "string"},
			},
		},
		"KnowledgeQuery": {
			Type:     "object",
			Required: []string{"category", "text"},
			Properties: map[string]*openapi.Schema{
				"category": {Type: "string", Example: "billing"},
				"text":     {Type: "string", Example: "How do refunds work?"},
				"k":        {Type: "integer", Description: "Passages to return; defaults to the configured top_k"},
			},
		},
		"KnowledgeMatch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":    {Type: "string"},
				"text":  {Type: "string"},
				"score": {Type: "number"},
			},
		},
	}
}

var knowledgeListOp = &openapi.Operation{
	Summary: "List indexed categories",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseArrayJSON("Indexed categories", "KnowledgeSummary"),
		503: {Description: "Indexes still loading"},
	},
}

var knowledgeQueryOp = &openapi.Operation{
	Summary:     "Query a category index",
	RequestBody: openapi.RequestBodyJSON("KnowledgeQuery", true),
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseArrayJSON("Nearest passages, best first", "KnowledgeMatch"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		503: {Description: "Indexes still loading"},
	},
}
