package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Stage transforms the pipeline state for one phase.
type Stage func(ctx context.Context, rt *Runtime, s State) (State, error)

var stages = map[Phase]Stage{
	PhaseClassifying: Classify,
	PhaseRetrieving:  Retrieve,
	PhaseDrafting:    Draft,
	PhaseReviewing:   Review,
	PhaseEscalating:  Escalate,
}

// Execute runs the pipeline for a single ticket until it reaches a terminal
// phase. A cancelled or expired context stops the run between stages and
// returns only the error.
func Execute(ctx context.Context, rt *Runtime, subject, description string) (*Result, error) {
	if strings.TrimSpace(subject) == "" && strings.TrimSpace(description) == "" {
		return nil, ErrInvalidTicket
	}

	if rt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.Timeout)
		defer cancel()
	}

	start := time.Now()
	logger := rt.logger()
	s := NewState(subject, description)
	phase := PhaseClassifying

	for !phase.Terminal() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", phase, err)
		}

		stage, ok := stages[phase]
		if !ok {
			return nil, fmt.Errorf("no stage for phase %s", phase)
		}

		stageStart := time.Now()
		next, err := stage(ctx, rt, s)
		rt.Metrics.observeStage(phase, time.Since(stageStart))
		if err != nil {
			return nil, err
		}

		s = next
		phase = Next(phase, s)
	}

	result := &Result{
		State:       s,
		Phase:       phase,
		Duration:    time.Since(start),
		CompletedAt: time.Now(),
	}

	rt.Metrics.finished(result.Response().Status)
	logger.InfoContext(ctx, "pipeline complete",
		"phase", phase,
		"category", s.Category,
		"passes", s.Passes,
		"duration", result.Duration,
	)

	return result, nil
}

// RunPipeline executes the pipeline and returns the caller-facing response.
func RunPipeline(ctx context.Context, rt *Runtime, subject, description string) (*Response, error) {
	result, err := Execute(ctx, rt, subject, description)
	if err != nil {
		return nil, err
	}

	resp := result.Response()
	return &resp, nil
}
