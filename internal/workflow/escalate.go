package workflow

import (
	"context"
	"fmt"
)

// Escalate records why the ticket is handed off to a human.
func Escalate(ctx context.Context, rt *Runtime, s State) (State, error) {
	s.EscalationReason = fmt.Sprintf("Escalated after %d failed attempts", s.RetryCount)

	rt.Metrics.escalated()
	rt.logger().WarnContext(ctx, "human handoff required",
		"category", s.Category,
		"reason", s.EscalationReason,
	)

	return s, nil
}
