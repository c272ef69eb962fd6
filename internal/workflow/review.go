package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/triage/internal/prompts"
)

// Review judges the draft. Only an exact APPROVED verdict approves; any
// other response rejects and counts a retry.
func Review(ctx context.Context, rt *Runtime, s State) (State, error) {
	body := fmt.Sprintf(
		"ORIGINAL TICKET:\n%s\n\nDRAFT RESPONSE:\n%s",
		ticketLines(s), s.DraftResponse,
	)

	prompt, err := ComposePrompt(ctx, rt.prompts(), prompts.StageReview, body)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrReviewFailed, err)
	}

	raw, err := rt.Generator.Generate(ctx, prompt, rt.temperatures().Review)
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrReviewFailed, err)
	}

	s.Passes++
	if Decision(strings.ToUpper(strings.TrimSpace(raw))) == DecisionApproved {
		s.ReviewDecision = DecisionApproved
		s.ReviewResult = "approved"
	} else {
		s.RetryCount++
		s.ReviewDecision = DecisionRejected
		s.ReviewResult = "rejected"
	}

	rt.Metrics.reviewed(s.ReviewDecision)
	rt.logger().InfoContext(ctx, "draft reviewed",
		"decision", s.ReviewDecision,
		"retry_count", s.RetryCount,
	)

	return s, nil
}
