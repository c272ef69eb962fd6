package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/triage/internal/prompts"
)

// Classify assigns the ticket a category with a single generation call.
// Responses outside the known category set yield CategoryUncategorized.
func Classify(ctx context.Context, rt *Runtime, s State) (State, error) {
	body := fmt.Sprintf(
		"TICKET DETAILS:\n- Subject: %s\n- Problem: %s",
		s.Subject, s.Description,
	)

	prompt, err := ComposePrompt(ctx, rt.prompts(), prompts.StageClassify, body)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrClassifyFailed, err)
	}

	raw, err := rt.Generator.Generate(ctx, prompt, rt.temperatures().Classify)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrClassifyFailed, err)
	}

	category, known := ParseCategory(raw)
	if !known {
		rt.logger().WarnContext(ctx, "unrecognized category", "raw", raw)
	}

	s.Category = category
	rt.Metrics.classified(category)
	rt.logger().InfoContext(ctx, "ticket classified", "category", category)

	return s, nil
}
