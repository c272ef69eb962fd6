package tickets

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/triage/internal/workflow"
	"github.com/JaimeStill/triage/pkg/query"
	"github.com/JaimeStill/triage/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "tickets", "t").
	Project("id", "ID").
	Project("subject", "Subject").
	Project("description", "Description").
	Project("category", "Category").
	Project("status", "Status").
	Project("response", "Response").
	Project("draft", "Draft").
	Project("review_result", "ReviewResult").
	Project("retrieved_context", "RetrievedContext").
	Project("retry_count", "RetryCount").
	Project("attempts_used", "AttemptsUsed").
	Project("escalation_reason", "EscalationReason").
	Project("duration_ms", "DurationMS").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = `RETURNING id, subject, description, category, status, response, draft,
		review_result, retrieved_context, retry_count, attempts_used,
		escalation_reason, duration_ms, created_at`

// Filters contains optional filtering criteria for ticket queries.
// Nil fields are ignored. Since and Until bound created_at inclusively
// and exclusively.
type Filters struct {
	Category *workflow.Category `json:"category,omitempty"`
	Status   *workflow.Status   `json:"status,omitempty"`
	Since    *time.Time         `json:"since,omitempty"`
	Until    *time.Time         `json:"until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("Status", f.Status).
		WhereCompare("CreatedAt", ">=", f.Since).
		WhereCompare("CreatedAt", "<", f.Until)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Times use RFC 3339; unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		category := workflow.Category(c)
		f.Category = &category
	}

	if s := values.Get("status"); s != "" {
		status := workflow.Status(s)
		f.Status = &status
	}

	if s := values.Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.Since = &t
		}
	}

	if u := values.Get("until"); u != "" {
		if t, err := time.Parse(time.RFC3339, u); err == nil {
			f.Until = &t
		}
	}

	return f
}

func scanTicket(s repository.Scanner) (Ticket, error) {
	var t Ticket
	var contextRaw []byte

	err := s.Scan(
		&t.ID,
		&t.Subject,
		&t.Description,
		&t.Category,
		&t.Status,
		&t.Response,
		&t.Draft,
		&t.ReviewResult,
		&contextRaw,
		&t.RetryCount,
		&t.AttemptsUsed,
		&t.EscalationReason,
		&t.DurationMS,
		&t.CreatedAt,
	)
	if err != nil {
		return t, err
	}

	if len(contextRaw) > 0 {
		if err := json.Unmarshal(contextRaw, &t.RetrievedContext); err != nil {
			return t, fmt.Errorf("unmarshal retrieved_context: %w", err)
		}
	}

	if t.RetrievedContext == nil {
		t.RetrievedContext = []string{}
	}

	return t, nil
}
