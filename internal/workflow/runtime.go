// Package workflow implements the evaluation pipeline: relevance
// confirmation, quality scoring, issue analysis, practice generation,
// grading, and run comparison. Every model call goes through the Runtime's
// Model, and every stage degrades to a local fallback instead of failing.
package workflow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/pkg/scheduler"
)

const tracerName = "github.com/JaimeStill/quill/internal/workflow"

// Caller issues one model call and returns the raw response text.
type Caller interface {
	Call(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Runtime bundles the dependencies that pipeline stages require.
// A nil Model makes every stage use its fallback. A nil Clock uses the
// wall clock for cooldowns and dates.
type Runtime struct {
	Model  Caller
	Config Config
	Clock  scheduler.Clock
	Logger *slog.Logger
}

// Progress receives human-readable status lines. It is purely
// observational; a nil Progress is ignored.
type Progress func(status string)

func (p Progress) report(format string, args ...any) {
	if p != nil {
		p(fmt.Sprintf(format, args...))
	}
}

func (rt *Runtime) clock() scheduler.Clock {
	if rt.Clock == nil {
		return scheduler.WallClock()
	}
	return rt.Clock
}

func (rt *Runtime) logger() *slog.Logger {
	if rt.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return rt.Logger
}

func (rt *Runtime) now() time.Time {
	return rt.clock().Now()
}

func (rt *Runtime) tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// call composes the stage prompt for input and sends it to the model.
func (rt *Runtime) call(ctx context.Context, stage prompts.Stage, input any, maxTokens int) (string, error) {
	if rt.Model == nil {
		return "", ErrNoModel
	}

	prompt, err := prompts.Compose(stage, input)
	if err != nil {
		return "", err
	}

	return rt.Model.Call(ctx, prompt, maxTokens)
}
