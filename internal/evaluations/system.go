package evaluations

import (
	"context"

	"github.com/JaimeStill/quill/internal/workflow"
)

// System defines the public contract for evaluation operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	Filter(ctx context.Context, req EvaluateRequest) (*FilterResult, error)
	Evaluate(ctx context.Context, req EvaluateRequest, progress workflow.Progress) (*workflow.Run, error)
}
