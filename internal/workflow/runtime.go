package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/triage/internal/prompts"
)

// Retriever returns up to k knowledge passages for a category.
type Retriever interface {
	Query(ctx context.Context, category, text string, k int) ([]string, error)
}

// Temperatures holds the sampling temperature for each generating stage.
type Temperatures struct {
	Classify float64
	Draft    float64
	Review   float64
}

// DefaultTemperatures returns deterministic classification and review with a
// slightly varied draft.
func DefaultTemperatures() Temperatures {
	return Temperatures{Classify: 0, Draft: 0.3, Review: 0}
}

// DefaultTopK is the number of passages retrieved per pass when Runtime.TopK is unset.
const DefaultTopK = 3

// Runtime bundles the dependencies that pipeline stages require.
// It is constructed by higher-level composition code from Infrastructure and Domain systems.
type Runtime struct {
	Generator    Generator
	Retriever    Retriever
	Prompts      prompts.Source
	Logger       *slog.Logger
	Metrics      *Metrics
	Temperatures Temperatures
	TopK         int
	// Timeout bounds a whole run when positive.
	Timeout time.Duration
}

// temperatures fills an unset draft temperature from the defaults. Drafting
// always samples with a positive temperature.
func (rt *Runtime) temperatures() Temperatures {
	t := rt.Temperatures
	if t.Draft <= 0 {
		t.Draft = DefaultTemperatures().Draft
	}
	return t
}

func (rt *Runtime) topK() int {
	if rt.TopK > 0 {
		return rt.TopK
	}
	return DefaultTopK
}

func (rt *Runtime) prompts() prompts.Source {
	if rt.Prompts != nil {
		return rt.Prompts
	}
	return prompts.Defaults()
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger != nil {
		return rt.Logger
	}
	return slog.New(slog.DiscardHandler)
}
