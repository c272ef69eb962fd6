package workflow

import (
	"slices"
	"strings"
	"time"
)

// Category is the topic a ticket is routed under.
type Category string

// Ticket categories. Uncategorized marks a classifier response outside the
// known set.
const (
	CategoryBilling       Category = "billing"
	CategoryTechnical     Category = "technical"
	CategorySecurity      Category = "security"
	CategoryGeneral       Category = "general"
	CategoryUncategorized Category = "uncategorized"
)

var categories = []Category{
	CategoryBilling,
	CategoryTechnical,
	CategorySecurity,
	CategoryGeneral,
}

// Categories returns the categories a classifier may assign.
func Categories() []Category {
	return categories
}

// ParseCategory normalizes s and reports whether it names a known category.
// Unknown input yields CategoryUncategorized.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(categories, c) {
		return c, true
	}
	return CategoryUncategorized, false
}

// Decision is a reviewer verdict on a drafted reply.
type Decision string

// Review decisions.
const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// Status is the caller-facing outcome of a pipeline run.
type Status string

// Pipeline statuses. NeedsMoreInfo is returned exactly when the run escalates.
const (
	StatusAnswered      Status = "answered"
	StatusNeedsMoreInfo Status = "needs_more_info"
)

// State is the record threaded through every stage. Stages receive it by
// value and return the updated copy.
type State struct {
	Subject          string   `json:"subject"`
	Description      string   `json:"description"`
	Category         Category `json:"category,omitempty"`
	RetrievedContext []string `json:"retrieved_context,omitempty"`
	DraftResponse    string   `json:"draft_response,omitempty"`
	ReviewDecision   Decision `json:"review_decision,omitempty"`
	ReviewResult     string   `json:"review_result,omitempty"`
	RetryCount       int      `json:"retry_count"`
	Passes           int      `json:"passes"`
	EscalationReason string   `json:"escalation_reason,omitempty"`
}

// NewState returns the initial state for a ticket.
func NewState(subject, description string) State {
	return State{
		Subject:     subject,
		Description: description,
	}
}

// Query returns the retrieval text for the ticket.
func (s State) Query() string {
	return strings.TrimSpace(s.Subject + " " + s.Description)
}

// Result is the final output of a pipeline run.
type Result struct {
	State       State         `json:"state"`
	Phase       Phase         `json:"phase"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Escalated reports whether the run ended in escalation.
func (r *Result) Escalated() bool {
	return r.Phase == PhaseEscalated
}

// Response is the caller-facing summary of a pipeline run.
type Response struct {
	Response     string `json:"response"`
	Status       Status `json:"status"`
	AttemptsUsed int    `json:"attempts_used"`
}

const (
	analyzingResponse     = "I'm analyzing your issue..."
	clarificationResponse = "I need more information. Could you describe your issue in more detail?"
)

// Response summarizes the result for the caller. Escalated runs ask for more
// detail; answered runs carry the draft, falling back to the review result.
func (r *Result) Response() Response {
	if r.Escalated() {
		return Response{
			Response:     clarificationResponse,
			Status:       StatusNeedsMoreInfo,
			AttemptsUsed: r.State.Passes,
		}
	}

	text := r.State.DraftResponse
	if text == "" {
		text = r.State.ReviewResult
	}
	if text == "" {
		text = analyzingResponse
	}

	return Response{
		Response:     text,
		Status:       StatusAnswered,
		AttemptsUsed: r.State.Passes,
	}
}
