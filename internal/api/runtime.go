package api

import (
	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/infrastructure"
	"github.com/JaimeStill/quill/internal/workflow"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Workflow    *workflow.Runtime
	MaxBodySize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Scheduler: infra.Scheduler,
			Model:     infra.Model,
			Pipeline:  infra.Pipeline,
		},
		Workflow:    infra.Runtime(logger),
		MaxBodySize: cfg.API.MaxBodySizeBytes(),
	}
}
