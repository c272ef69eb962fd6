package workflow

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Generator produces text for a prompt at a given sampling temperature.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, temperature float64) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return f(ctx, prompt, temperature)
}

// ModelGenerator is a Generator backed by a langchaingo model.
type ModelGenerator struct {
	Model llms.Model
}

// NewModelGenerator wraps model as a Generator.
func NewModelGenerator(model llms.Model) *ModelGenerator {
	return &ModelGenerator{Model: model}
}

// Generate sends prompt as a single human message.
func (g *ModelGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.Model, prompt, llms.WithTemperature(temperature))
}
