package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/quill/internal/api"
	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/infrastructure"
	"github.com/JaimeStill/quill/pkg/module"
)

// Modules is the set of prefixed modules the server mounts.
type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	return &Modules{API: apiModule}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	return router.Mount(m.API)
}

// buildRouter returns a router carrying only the native probe routes.
func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()
	router.HandleNative("GET /healthz", healthz)
	router.HandleNative("GET /readyz", readyz(infra))
	return router
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	writeProbe(w, http.StatusOK, map[string]any{"status": "ok"})
}

// readyz reports 503 until startup hooks have run, then the scheduler backlog.
func readyz(infra *infrastructure.Infrastructure) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if !infra.Lifecycle.Ready() {
			writeProbe(w, http.StatusServiceUnavailable, map[string]any{"status": "not ready"})
			return
		}
		writeProbe(w, http.StatusOK, map[string]any{
			"status": "ready",
			"queued": infra.Scheduler.QueueLength(),
		})
	}
}

func writeProbe(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
