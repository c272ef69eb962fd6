// Package prompts holds the per-stage prompt text of the triage pipeline and
// the domain for operator overrides of stage instructions.
package prompts

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prompt is a named instruction override for a pipeline stage. At most one
// prompt per stage is active.
type Prompt struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Instructions string    `json:"instructions"`
	Description  *string   `json:"description"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Command carries the fields for creating or replacing a prompt override.
type Command struct {
	Name         string  `json:"name"`
	Stage        Stage   `json:"stage"`
	Instructions string  `json:"instructions"`
	Description  *string `json:"description"`
}

// Validate checks the command for required fields.
func (c Command) Validate() error {
	if _, err := ParseStage(string(c.Stage)); err != nil {
		return err
	}
	if strings.TrimSpace(c.Instructions) == "" {
		return ErrEmptyText
	}
	return nil
}
