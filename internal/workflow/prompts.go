package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/triage/internal/prompts"
)

// ComposePrompt builds a stage prompt from the tunable instructions resolved
// through src, the ticket-specific body, and the stage's fixed output rules.
func ComposePrompt(
	ctx context.Context,
	src prompts.Source,
	stage prompts.Stage,
	body string,
) (string, error) {
	instructions, err := src.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := prompts.Spec(stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	return sb.String(), nil
}

func ticketLines(s State) string {
	return fmt.Sprintf("Subject: %s\nDescription: %s", s.Subject, s.Description)
}

const noContext = "No relevant knowledge base context found."

func renderContext(passages []string) string {
	if len(passages) == 0 {
		return noContext
	}
	return "\n- " + strings.Join(passages, "\n- ")
}
