// Package module mounts self-contained HTTP handlers under path prefixes,
// each with its own middleware stack.
package module

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/JaimeStill/quill/pkg/middleware"
)

// Module serves a self-contained router beneath a single-level path prefix.
// The prefix is stripped before the inner router sees the request.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// ErrInvalidPrefix is returned for a prefix that is not a single-level path.
var ErrInvalidPrefix = errors.New("invalid module prefix")

// New creates a Module for prefix (e.g. "/api").
func New(prefix string, router http.Handler) (*Module, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}, nil
}

// Handler returns the inner router wrapped in the module's middleware.
// The chain is composed on first use; middleware added afterwards is ignored.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

func (m *Module) Prefix() string {
	return m.prefix
}

// Serve dispatches req to the inner router with the prefix removed.
// req itself is left untouched.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, cloneRequest(req, extractPath(req.URL.Path, m.prefix)))
}

// Use appends fns to the module's middleware stack.
func (m *Module) Use(fns ...middleware.Func) {
	m.middleware.Use(fns...)
}

func cloneRequest(req *http.Request, path string) *http.Request {
	request := new(http.Request)
	*request = *req
	request.URL = new(url.URL)
	*request.URL = *req.URL
	request.URL.Path = path
	request.URL.RawPath = ""
	return request
}

func extractPath(fullPath, prefix string) string {
	path := fullPath[len(prefix):]
	if path == "" {
		return "/"
	}
	return path
}

func validatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w: must start with /: %s", ErrInvalidPrefix, prefix)
	case strings.Count(prefix, "/") != 1 || len(prefix) == 1:
		return fmt.Errorf("%w: must be a single-level sub-path: %s", ErrInvalidPrefix, prefix)
	}
	return nil
}
