// Package tickets implements the ticket domain: it runs submitted tickets
// through the triage pipeline and stores each outcome for later review.
package tickets

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/triage/internal/workflow"
)

// Ticket is a stored pipeline outcome. It mirrors the tickets table.
type Ticket struct {
	ID               uuid.UUID         `json:"id"`
	Subject          string            `json:"subject"`
	Description      string            `json:"description"`
	Category         workflow.Category `json:"category"`
	Status           workflow.Status   `json:"status"`
	Response         string            `json:"response"`
	Draft            string            `json:"draft"`
	ReviewResult     string            `json:"review_result"`
	RetrievedContext []string          `json:"retrieved_context"`
	RetryCount       int               `json:"retry_count"`
	AttemptsUsed     int               `json:"attempts_used"`
	EscalationReason *string           `json:"escalation_reason"`
	DurationMS       int64             `json:"duration_ms"`
	CreatedAt        time.Time         `json:"created_at"`
}

// ProcessCommand carries a submitted ticket.
type ProcessCommand struct {
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Validate rejects a ticket with neither subject nor description.
func (c ProcessCommand) Validate() error {
	if strings.TrimSpace(c.Subject) == "" && strings.TrimSpace(c.Description) == "" {
		return workflow.ErrInvalidTicket
	}
	return nil
}

// ProcessResponse is the caller-facing result of processing a ticket. ID is
// omitted when the outcome could not be stored.
type ProcessResponse struct {
	ID *uuid.UUID `json:"id,omitempty"`
	workflow.Response
}

// Stored reports whether the ticket was persisted.
func (t *Ticket) Stored() bool {
	return t.ID != uuid.Nil
}

// Summary returns the caller-facing view of a ticket.
func (t *Ticket) Summary() ProcessResponse {
	var id *uuid.UUID
	if t.Stored() {
		id = &t.ID
	}
	return ProcessResponse{
		ID: id,
		Response: workflow.Response{
			Response:     t.Response,
			Status:       t.Status,
			AttemptsUsed: t.AttemptsUsed,
		},
	}
}

func fromResult(cmd ProcessCommand, result *workflow.Result) Ticket {
	resp := result.Response()
	s := result.State

	var reason *string
	if s.EscalationReason != "" {
		reason = &s.EscalationReason
	}

	ctx := s.RetrievedContext
	if ctx == nil {
		ctx = []string{}
	}

	return Ticket{
		Subject:          cmd.Subject,
		Description:      cmd.Description,
		Category:         s.Category,
		Status:           resp.Status,
		Response:         resp.Response,
		Draft:            s.DraftResponse,
		ReviewResult:     s.ReviewResult,
		RetrievedContext: ctx,
		RetryCount:       s.RetryCount,
		AttemptsUsed:     resp.AttemptsUsed,
		EscalationReason: reason,
		DurationMS:       result.Duration.Milliseconds(),
	}
}
