package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
)

type corsHeaders struct {
	methods string
	headers string
	maxAge  string
	creds   bool
}

// CORS returns middleware enforcing cfg's origin allow-list.
// When disabled, or with no origins configured, requests pass through untouched.
// OPTIONS requests are answered directly and never reach next.
func CORS(cfg *CORSConfig) Func {
	if cfg == nil || !cfg.Enabled || len(cfg.Origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	h := corsHeaders{
		methods: strings.Join(cfg.AllowedMethods, ", "),
		headers: strings.Join(cfg.AllowedHeaders, ", "),
		creds:   cfg.AllowCredentials,
	}
	if cfg.MaxAge > 0 {
		h.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	origins := slices.Clone(cfg.Origins)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			header.Add("Vary", "Origin")

			if origin := r.Header.Get("Origin"); origin != "" && slices.Contains(origins, origin) {
				h.write(header, origin)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h corsHeaders) write(header http.Header, origin string) {
	header.Set("Access-Control-Allow-Origin", origin)
	if h.methods != "" {
		header.Set("Access-Control-Allow-Methods", h.methods)
	}
	if h.headers != "" {
		header.Set("Access-Control-Allow-Headers", h.headers)
	}
	if h.creds {
		header.Set("Access-Control-Allow-Credentials", "true")
	}
	if h.maxAge != "" {
		header.Set("Access-Control-Max-Age", h.maxAge)
	}
}
