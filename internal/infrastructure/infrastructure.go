// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies shared by the HTTP service and the CLI: lifecycle
// coordination, logging, and the model client with its request scheduler.
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/llm"
	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/lifecycle"
	"github.com/JaimeStill/quill/pkg/scheduler"
)

// Infrastructure holds the core systems required by all domain modules.
// Model is nil when no API key is configured; pipeline stages then run on
// their local fallbacks.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Scheduler *scheduler.Scheduler
	Model     *llm.Client
	Pipeline  workflow.Config
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithLogger(cfg, slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// NewWithLogger is New with a caller-provided logger.
func NewWithLogger(cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	return build(cfg, logger, lifecycle.New())
}

// NewFromContext is NewWithLogger with a lifecycle that also ends when ctx
// is cancelled. Commands pass a signal-bound context here.
func NewFromContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infrastructure, error) {
	return build(cfg, logger, lifecycle.NewFromContext(ctx))
}

func build(cfg *config.Config, logger *slog.Logger, lc *lifecycle.Coordinator) (*Infrastructure, error) {
	sched := scheduler.New(scheduler.Config{
		Interval: cfg.Pipeline.MinIntervalDuration(),
		Logger:   logger,
	})

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Scheduler: sched,
		Pipeline:  cfg.Pipeline,
	}

	model, err := llm.New(&cfg.Model)
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		logger.Warn("no model api key configured, using local fallbacks", "provider", cfg.Model.Provider)
	case err != nil:
		return nil, fmt.Errorf("model init failed: %w", err)
	default:
		infra.Model = llm.NewClient(model, sched, logger)
	}

	return infra, nil
}

// Runtime returns a pipeline runtime bound to the shared model client.
func (i *Infrastructure) Runtime(logger *slog.Logger) *workflow.Runtime {
	rt := &workflow.Runtime{
		Config: i.Pipeline,
		Logger: logger,
	}
	if i.Model != nil {
		rt.Model = i.Model
	}
	return rt
}

// Start registers infrastructure hooks with the lifecycle coordinator.
// The shutdown hook reports model calls still queued when the service stops.
func (i *Infrastructure) Start() error {
	i.Lifecycle.OnStartup(func() {
		i.Logger.Info(
			"model scheduler ready",
			"interval", i.Scheduler.Interval(),
			"model_configured", i.Model != nil,
		)
	})

	i.Lifecycle.OnShutdown(func() {
		<-i.Lifecycle.Context().Done()
		if n := i.Scheduler.QueueLength(); n > 0 {
			i.Logger.Warn("shutting down with queued model calls", "queued", n)
		}
	})

	return nil
}
