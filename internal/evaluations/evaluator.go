package evaluations

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/quill/internal/messages"
	"github.com/JaimeStill/quill/internal/workflow"
)

type evaluator struct {
	rt     *workflow.Runtime
	logger *slog.Logger
}

// New creates an evaluation system that runs the pipeline with rt.
func New(rt *workflow.Runtime, logger *slog.Logger) System {
	return &evaluator{
		rt:     rt,
		logger: logger.With("system", "evaluations"),
	}
}

func (e *evaluator) Handler(maxBodySize int64) *Handler {
	return NewHandler(e, e.logger, maxBodySize)
}

func (e *evaluator) Filter(ctx context.Context, req EvaluateRequest) (*FilterResult, error) {
	msgs, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	kept := messages.Filter(msgs)
	if kept == nil {
		kept = []messages.Message{}
	}

	e.logger.DebugContext(ctx, "filter complete", "input", len(msgs), "kept", len(kept))

	return &FilterResult{
		Input:    len(msgs),
		Kept:     len(kept),
		Range:    messages.Range(kept),
		Messages: kept,
	}, nil
}

func (e *evaluator) Evaluate(
	ctx context.Context,
	req EvaluateRequest,
	progress workflow.Progress,
) (*workflow.Run, error) {
	msgs, err := req.Resolve()
	if err != nil {
		return nil, err
	}

	return workflow.Execute(ctx, e.rt, msgs, workflow.Options{MaxMessages: req.MaxMessages}, progress)
}
