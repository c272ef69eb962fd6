// Package workflow implements the support ticket triage pipeline: an explicit
// state machine that classifies a ticket, retrieves knowledge for its
// category, drafts a reply, and reviews it, retrying a bounded number of
// times before escalating to a human.
package workflow

import (
	"context"
	"errors"
	"net/http"
)

// Sentinel errors for workflow operations.
var (
	ErrInvalidTicket  = errors.New("ticket subject and description must not both be empty")
	ErrClassifyFailed = errors.New("classification failed")
	ErrDraftFailed    = errors.New("draft generation failed")
	ErrReviewFailed   = errors.New("review failed")
)

// MapHTTPStatus maps workflow errors to HTTP status codes. Generation
// failures surface as 502; an expired deadline as 504.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidTicket):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, ErrClassifyFailed),
		errors.Is(err, ErrDraftFailed),
		errors.Is(err, ErrReviewFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
