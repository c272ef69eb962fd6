package prompts

import "context"

// Source resolves the instructions a stage should run with.
type Source interface {
	Instructions(ctx context.Context, stage Stage) (string, error)
}

type defaults struct{}

// Defaults returns a Source serving only the built-in instructions.
func Defaults() Source {
	return defaults{}
}

func (defaults) Instructions(_ context.Context, stage Stage) (string, error) {
	return Instructions(stage)
}
