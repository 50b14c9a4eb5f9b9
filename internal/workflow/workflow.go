package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/messages"
)

// Options tunes a single Execute call.
// MaxMessages overrides the configured cap when positive.
type Options struct {
	MaxMessages int
}

// Counts records how many messages survived each stage of a run.
type Counts struct {
	Input     int `json:"input"`
	Heuristic int `json:"heuristic"`
	Sampled   int `json:"sampled"`
	Confirmed int `json:"confirmed"`
	Evaluated int `json:"evaluated"`
}

// Run is the outcome of one evaluation pass.
type Run struct {
	ID       string             `json:"id"`
	Records  []EvaluationRecord `json:"records"`
	Analysis *Analysis          `json:"analysis"`
	Counts   Counts             `json:"counts"`
}

// Execute runs the evaluation pipeline over msgs: heuristic filter,
// relevance confirmation, quality evaluation, and pattern analysis.
// An empty input, or a stage that leaves no messages, returns an
// EmptyResultError naming that stage.
func Execute(
	ctx context.Context,
	rt *Runtime,
	msgs []messages.Message,
	opts Options,
	progress Progress,
) (*Run, error) {
	ctx, span := rt.tracer().Start(ctx, "workflow.execute")
	defer span.End()

	run := &Run{
		ID:     uuid.NewString(),
		Counts: Counts{Input: len(msgs)},
	}
	logger := rt.logger().With("run_id", run.ID)

	if len(msgs) == 0 {
		return nil, &EmptyResultError{Stage: StageInput}
	}

	progress.report("%s: screening %d messages", StageHeuristic, len(msgs))
	candidates := messages.Filter(msgs)
	run.Counts.Heuristic = len(candidates)
	if len(candidates) == 0 {
		return nil, &EmptyResultError{Stage: StageHeuristic}
	}

	limit := rt.Config.MaxMessages
	if opts.MaxMessages > 0 {
		limit = opts.MaxMessages
	}
	candidates = messages.Latest(candidates, limit)
	run.Counts.Sampled = len(candidates)

	logger.InfoContext(
		ctx, "heuristic filter complete",
		"input", run.Counts.Input,
		"kept", run.Counts.Heuristic,
		"sampled", run.Counts.Sampled,
	)

	confirmed, err := ConfirmRelevance(ctx, rt, candidates, progress)
	if err != nil {
		return nil, fmt.Errorf("confirm relevance: %w", err)
	}
	run.Counts.Confirmed = len(confirmed)
	if len(confirmed) == 0 {
		return nil, &EmptyResultError{Stage: StageRelevance}
	}

	records, err := Evaluate(ctx, rt, confirmed, progress)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	run.Records = records
	run.Counts.Evaluated = len(records)

	analysis, err := Analyze(ctx, rt, records, progress)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	analysis.describe(messages.Range(confirmed))
	run.Analysis = analysis

	logger.InfoContext(
		ctx, "run complete",
		"confirmed", run.Counts.Confirmed,
		"evaluated", run.Counts.Evaluated,
	)

	return run, nil
}
