package tickets

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/triage/internal/workflow"
)

// Domain errors for ticket operations.
var (
	ErrNotFound  = errors.New("ticket not found")
	ErrDuplicate = errors.New("ticket already exists")

	ErrUnavailable = errors.New("ticket store unavailable")
)

// MapHTTPStatus maps ticket and pipeline errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return workflow.MapHTTPStatus(err)
	}
}
