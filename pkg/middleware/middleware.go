// Package middleware provides the HTTP middleware stack shared by modules:
// request IDs, panic recovery, request logging, and request metrics.
package middleware

import "net/http"

// Func wraps an http.Handler.
type Func = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware. The first middleware
// added is the outermost.
type System interface {
	Use(mws ...Func)
	Apply(handler http.Handler) http.Handler
}

type stack []Func

// New creates an empty middleware System.
func New() System {
	return &stack{}
}

func (s *stack) Use(mws ...Func) {
	*s = append(*s, mws...)
}

func (s *stack) Apply(handler http.Handler) http.Handler {
	return Chain(*s...)(handler)
}

// Chain composes mws so the first wraps all the others.
func Chain(mws ...Func) Func {
	return func(handler http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			handler = mws[i](handler)
		}
		return handler
	}
}
