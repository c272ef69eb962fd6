package tickets_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/tickets"
	"github.com/JaimeStill/triage/internal/workflow"
	"github.com/JaimeStill/triage/pkg/pagination"
	"github.com/JaimeStill/triage/pkg/query"
	"github.com/JaimeStill/triage/pkg/routes"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var pageCfg = pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}

type mockSystem struct {
	listFn    func(ctx context.Context, page pagination.PageRequest, filters tickets.Filters) (*pagination.PageResult[tickets.Ticket], error)
	findFn    func(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error)
	processFn func(ctx context.Context, cmd tickets.ProcessCommand) (*tickets.Ticket, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler() *tickets.Handler {
	return tickets.NewHandler(m, discard, pageCfg, 1024)
}

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters tickets.Filters) (*pagination.PageResult[tickets.Ticket], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*tickets.Ticket, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Process(ctx context.Context, cmd tickets.ProcessCommand) (*tickets.Ticket, error) {
	return m.processFn(ctx, cmd)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func setupMux(sys *mockSystem) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())
	return mux
}

func sampleTicket() tickets.Ticket {
	return tickets.Ticket{
		ID:           uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7"),
		Subject:      "Can't log in",
		Description:  "2FA code not arriving",
		Category:     workflow.CategorySecurity,
		Status:       workflow.StatusAnswered,
		Response:     "Resync your authenticator clock.",
		AttemptsUsed: 1,
	}
}

func TestHandlerProcess(t *testing.T) {
	sample := sampleTicket()
	var captured tickets.ProcessCommand

	sys := &mockSystem{
		processFn: func(_ context.Context, cmd tickets.ProcessCommand) (*tickets.Ticket, error) {
			captured = cmd
			return &sample, nil
		},
	}
	mux := setupMux(sys)

	body := `{"subject":"Can't log in","description":"2FA code not arriving"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tickets/process", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Subject != "Can't log in" {
		t.Errorf("subject = %q", captured.Subject)
	}

	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	want := map[string]any{
		"id":            sample.ID.String(),
		"response":      "Resync your authenticator clock.",
		"status":        "answered",
		"attempts_used": float64(1),
	}
	if len(got) != len(want) {
		t.Errorf("response keys = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestHandlerProcessErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"malformed json", `{"subject":`, nil, http.StatusBadRequest},
		{"unknown field", `{"subject":"x","priority":"high"}`, nil, http.StatusBadRequest},
		{"oversized", `{"subject":"` + strings.Repeat("x", 2048) + `"}`, nil, http.StatusRequestEntityTooLarge},
		{"invalid ticket", `{"subject":" "}`, workflow.ErrInvalidTicket, http.StatusBadRequest},
		{"provider failure", `{"subject":"x"}`, errors.Join(workflow.ErrDraftFailed, errors.New("503")), http.StatusBadGateway},
		{"deadline", `{"subject":"x"}`, context.DeadlineExceeded, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := &mockSystem{
				processFn: func(context.Context, tickets.ProcessCommand) (*tickets.Ticket, error) {
					return nil, tt.err
				},
			}

			rec := httptest.NewRecorder()
			setupMux(sys).ServeHTTP(rec, httptest.NewRequest("POST", "/tickets/process", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerFind(t *testing.T) {
	sample := sampleTicket()
	sys := &mockSystem{
		findFn: func(_ context.Context, id uuid.UUID) (*tickets.Ticket, error) {
			if id == sample.ID {
				return &sample, nil
			}
			return nil, tickets.ErrNotFound
		},
	}
	mux := setupMux(sys)

	tests := []struct {
		path string
		want int
	}{
		{"/tickets/" + sample.ID.String(), http.StatusOK},
		{"/tickets/" + uuid.NewString(), http.StatusNotFound},
		{"/tickets/nope", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerListAndSearch(t *testing.T) {
	var captured tickets.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, page pagination.PageRequest, f tickets.Filters) (*pagination.PageResult[tickets.Ticket], error) {
			captured = f
			result := pagination.NewPageResult([]tickets.Ticket{sampleTicket()}, 1, 1, 20)
			return &result, nil
		},
	}
	mux := setupMux(sys)

	t.Run("list with query filters", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", "/tickets?category=security&status=answered", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Category == nil || *captured.Category != workflow.CategorySecurity {
			t.Errorf("category = %v, want security", captured.Category)
		}
		if captured.Status == nil || *captured.Status != workflow.StatusAnswered {
			t.Errorf("status = %v, want answered", captured.Status)
		}
	})

	t.Run("search with body filters", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"search": "refund",
			"status": "needs_more_info",
			"since":  "2026-01-01T00:00:00Z",
		})

		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tickets/search", bytes.NewReader(body)))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if captured.Status == nil || *captured.Status != workflow.StatusNeedsMoreInfo {
			t.Errorf("status = %v, want needs_more_info", captured.Status)
		}
		if captured.Since == nil || captured.Since.Year() != 2026 {
			t.Errorf("since = %v", captured.Since)
		}
	})
}

func TestHandlerDelete(t *testing.T) {
	sys := &mockSystem{
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			return tickets.ErrNotFound
		},
	}

	rec := httptest.NewRecorder()
	setupMux(sys).ServeHTTP(rec, httptest.NewRequest("DELETE", "/tickets/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestFiltersFromQuery(t *testing.T) {
	f := tickets.FiltersFromQuery(url.Values{
		"category": {"billing"},
		"since":    {"2026-03-01T00:00:00Z"},
		"until":    {"not-a-time"},
	})

	if f.Category == nil || *f.Category != workflow.CategoryBilling {
		t.Errorf("category = %v, want billing", f.Category)
	}
	if f.Since == nil || !f.Since.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("since = %v", f.Since)
	}
	if f.Until != nil {
		t.Errorf("until = %v, want nil", f.Until)
	}
	if f.Status != nil {
		t.Errorf("status = %v, want nil", f.Status)
	}
}

func TestFiltersApply(t *testing.T) {
	projection := query.
		NewProjectionMap("public", "tickets", "t").
		Project("category", "Category").
		Project("status", "Status").
		Project("created_at", "CreatedAt")

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 1, 0)
	category := workflow.CategoryTechnical

	f := tickets.Filters{Category: &category, Since: &since, Until: &until}
	sql, args := f.Apply(query.NewBuilder(projection)).Build()

	for _, want := range []string{"t.category = $1", "t.created_at >= $2", "t.created_at < $3"} {
		if !strings.Contains(sql, want) {
			t.Errorf("sql %q missing %q", sql, want)
		}
	}
	if len(args) != 3 {
		t.Errorf("len(args) = %d, want 3", len(args))
	}
}

func TestProcessRejectsBeforePipeline(t *testing.T) {
	called := false
	rt := &workflow.Runtime{
		Generator: workflow.GeneratorFunc(func(context.Context, string, float64) (string, error) {
			called = true
			return "", nil
		}),
	}

	sys := tickets.New(nil, rt, discard, pageCfg, 1024)
	_, err := sys.Process(context.Background(), tickets.ProcessCommand{Subject: "  "})

	if !errors.Is(err, workflow.ErrInvalidTicket) {
		t.Errorf("error = %v, want ErrInvalidTicket", err)
	}
	if called {
		t.Error("generator should not be called for an invalid ticket")
	}
}

func TestProcessPipelineFailureNotStored(t *testing.T) {
	boom := errors.New("provider down")
	rt := &workflow.Runtime{
		Generator: workflow.GeneratorFunc(func(context.Context, string, float64) (string, error) {
			return "", boom
		}),
	}

	sys := tickets.New(nil, rt, discard, pageCfg, 1024)
	_, err := sys.Process(context.Background(), tickets.ProcessCommand{Subject: "Refund"})

	if !errors.Is(err, workflow.ErrClassifyFailed) || !errors.Is(err, boom) {
		t.Errorf("error = %v, want classify failure wrapping %v", err, boom)
	}
	if got := tickets.MapHTTPStatus(err); got != http.StatusBadGateway {
		t.Errorf("MapHTTPStatus = %d, want 502", got)
	}
}

func TestSummary(t *testing.T) {
	sample := sampleTicket()
	got := sample.Summary()

	if got.ID == nil || *got.ID != sample.ID || got.Status != workflow.StatusAnswered || got.AttemptsUsed != 1 {
		t.Errorf("Summary() = %+v", got)
	}

	unstored := tickets.Ticket{Response: "reply", Status: workflow.StatusAnswered, AttemptsUsed: 1}
	body, err := json.Marshal(unstored.Summary())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(body), `"id"`) {
		t.Errorf("unstored summary should omit id: %s", body)
	}
}

// stageReplies answers each pipeline stage with a fixed reply.
func stageReplies(category, draft, review string) workflow.Generator {
	return workflow.GeneratorFunc(func(_ context.Context, prompt string, _ float64) (string, error) {
		switch {
		case strings.Contains(prompt, "AVAILABLE CATEGORIES"):
			return category, nil
		case strings.Contains(prompt, "DRAFT RESPONSE:"):
			return review, nil
		default:
			return draft, nil
		}
	})
}

type passages []string

func (p passages) Query(context.Context, string, string, int) ([]string, error) {
	return p, nil
}

func TestProcessStoreFailureKeepsAnswer(t *testing.T) {
	rt := &workflow.Runtime{
		Generator: stageReplies("billing", "Refunds post within 5 days.", "APPROVED"),
		Retriever: passages{"refund policy is 30 days"},
	}

	sys := tickets.New(nil, rt, discard, pageCfg, 1024)
	got, err := sys.Process(context.Background(), tickets.ProcessCommand{Subject: "Refund", Description: "charged twice"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got.Stored() {
		t.Errorf("ticket should not be marked stored, id = %s", got.ID)
	}
	if got.Response != "Refunds post within 5 days." || got.Status != workflow.StatusAnswered {
		t.Errorf("outcome = %q %s", got.Response, got.Status)
	}
	if got.Category != workflow.CategoryBilling || got.AttemptsUsed != 1 {
		t.Errorf("category %s attempts %d, want billing 1", got.Category, got.AttemptsUsed)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set on an unstored ticket")
	}
}

func TestHandlerProcessUnstored(t *testing.T) {
	sys := &mockSystem{
		processFn: func(context.Context, tickets.ProcessCommand) (*tickets.Ticket, error) {
			return &tickets.Ticket{Response: "reply", Status: workflow.StatusAnswered, AttemptsUsed: 1}, nil
		},
	}

	mux := setupMux(sys)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/tickets/process", strings.NewReader(`{"subject":"Refund"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["id"]; ok {
		t.Errorf("body should omit id: %v", body)
	}
	if body["response"] != "reply" || body["status"] != "answered" {
		t.Errorf("body = %v", body)
	}
}

func TestMapHTTPStatusUnavailable(t *testing.T) {
	if got := tickets.MapHTTPStatus(tickets.ErrUnavailable); got != http.StatusServiceUnavailable {
		t.Errorf("MapHTTPStatus(ErrUnavailable) = %d, want 503", got)
	}
}
