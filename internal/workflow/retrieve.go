package workflow

import (
	"context"
	"strings"
)

// Retrieve replaces the retrieved context with passages for the ticket's
// category. An unset category searches general. Lookup failures yield a
// single placeholder passage and never fail the run.
func Retrieve(ctx context.Context, rt *Runtime, s State) (State, error) {
	category := strings.ToLower(strings.TrimSpace(string(s.Category)))
	if category == "" {
		category = string(CategoryGeneral)
	}

	passages, err := rt.Retriever.Query(ctx, category, s.Query(), rt.topK())
	if err != nil {
		rt.logger().WarnContext(ctx, "knowledge lookup failed",
			"category", category, "error", err)
		passages = []string{"No vectorstore loaded for category: " + category}
	}

	s.RetrievedContext = passages
	rt.logger().InfoContext(ctx, "context retrieved",
		"category", category, "passages", len(passages))

	return s, nil
}
