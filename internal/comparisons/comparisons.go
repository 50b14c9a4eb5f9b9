// Package comparisons contrasts two evaluation analyses over HTTP.
package comparisons

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/handlers"
)

// ErrMissingAnalysis is returned when either side of a comparison is absent.
var ErrMissingAnalysis = errors.New("comparison requires baseline and followup analyses")

// CompareRequest pairs a baseline analysis with a later followup.
type CompareRequest struct {
	Baseline *workflow.Analysis `json:"baseline"`
	Followup *workflow.Analysis `json:"followup"`
}

// System defines the public contract for comparison operations.
type System interface {
	Handler(maxBodySize int64) *Handler
	Compare(ctx context.Context, req CompareRequest) (*workflow.ComparisonResult, error)
}

type comparer struct {
	rt     *workflow.Runtime
	logger *slog.Logger
}

// New creates a comparison system backed by rt.
func New(rt *workflow.Runtime, logger *slog.Logger) System {
	return &comparer{
		rt:     rt,
		logger: logger.With("system", "comparisons"),
	}
}

func (c *comparer) Handler(maxBodySize int64) *Handler {
	return NewHandler(c, c.logger, maxBodySize)
}

func (c *comparer) Compare(ctx context.Context, req CompareRequest) (*workflow.ComparisonResult, error) {
	if req.Baseline == nil || req.Followup == nil {
		return nil, ErrMissingAnalysis
	}

	result := workflow.Compare(ctx, c.rt, req.Baseline, req.Followup, nil)

	c.logger.InfoContext(ctx, "comparison complete",
		"resolved", len(result.Resolved),
		"persistent", len(result.Persistent),
		"new", len(result.NewIssues),
	)
	return result, nil
}

// MapHTTPStatus maps comparison errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrMissingAnalysis) || errors.Is(err, handlers.ErrInvalidBody) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
