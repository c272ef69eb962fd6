package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/triage/internal/prompts"
)

// Draft generates a candidate reply from the ticket and retrieved context.
func Draft(ctx context.Context, rt *Runtime, s State) (State, error) {
	body := fmt.Sprintf(
		"CUSTOMER ISSUE:\n%s\n\nKNOWLEDGE BASE SNIPPETS:\n%s",
		ticketLines(s), renderContext(s.RetrievedContext),
	)

	prompt, err := ComposePrompt(ctx, rt.prompts(), prompts.StageDraft, body)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrDraftFailed, err)
	}

	draft, err := rt.Generator.Generate(ctx, prompt, rt.temperatures().Draft)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrDraftFailed, err)
	}

	s.DraftResponse = draft
	rt.logger().InfoContext(ctx, "reply drafted", "pass", s.Passes+1)

	return s, nil
}
