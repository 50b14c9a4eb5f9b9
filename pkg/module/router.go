package module

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"
)

// ErrDuplicatePrefix is returned when two modules claim the same prefix.
var ErrDuplicatePrefix = errors.New("module prefix already mounted")

// Router dispatches on the first path segment. Requests whose segment matches
// a mounted module go to that module; everything else falls through to a
// plain ServeMux holding the native routes (health probes and the like).
type Router struct {
	mu      sync.RWMutex
	modules map[string]*Module
	native  *http.ServeMux
}

func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// HandleNative registers handler on the fallback mux.
func (r *Router) HandleNative(pattern string, handler http.HandlerFunc) {
	r.native.HandleFunc(pattern, handler)
}

// Mount registers m under its prefix.
func (r *Router) Mount(m *Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[m.prefix]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePrefix, m.prefix)
	}
	r.modules[m.prefix] = m
	return nil
}

// Prefixes lists mounted module prefixes in sorted order.
func (r *Router) Prefixes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.modules))
	for p := range r.modules {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	trimTrailingSlash(req)

	r.mu.RLock()
	m, ok := r.modules[firstSegment(req.URL.Path)]
	r.mu.RUnlock()

	if ok {
		m.Serve(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}

// firstSegment returns "/seg" for "/seg/rest" and "/seg".
func firstSegment(path string) string {
	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return path
	}
	seg, _, _ := strings.Cut(rest, "/")
	return "/" + seg
}

func trimTrailingSlash(req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimRight(p, "/")
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
	}
}
