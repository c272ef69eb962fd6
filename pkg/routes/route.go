package routes

import (
	"net/http"

	"github.com/JaimeStill/triage/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler, with an optional
// OpenAPI operation describing it.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
