// Package middleware provides composable http.Handler wrappers for the
// request pipeline: CORS, request logging, and tracing.
package middleware

import "net/http"

// Func wraps an http.Handler with additional behavior.
type Func = func(http.Handler) http.Handler

// System manages an ordered stack of HTTP middleware.
// The first Func registered is the outermost wrapper.
type System interface {
	Use(fns ...Func)
	Apply(handler http.Handler) http.Handler
	Len() int
}

type stack []Func

// New creates a System, optionally seeded with fns.
func New(fns ...Func) System {
	s := make(stack, 0, len(fns))
	return s.push(fns)
}

func (s *stack) push(fns []Func) *stack {
	for _, fn := range fns {
		if fn != nil {
			*s = append(*s, fn)
		}
	}
	return s
}

// Use appends fns to the stack, skipping nil entries.
func (s *stack) Use(fns ...Func) {
	s.push(fns)
}

func (s *stack) Len() int {
	return len(*s)
}

// Apply wraps handler so requests pass through the stack in registration order.
func (s *stack) Apply(handler http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		handler = (*s)[i](handler)
	}
	return handler
}
