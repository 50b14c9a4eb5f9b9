package practice

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/quill/internal/workflow"
)

// System defines the public contract for practice operations.
type System interface {
	Handler(maxBodySize int64) *Handler

	NewSession(ctx context.Context, req SessionRequest) (*workflow.PracticeSession, error)
	Grade(ctx context.Context, session *workflow.PracticeSession) (*workflow.PracticeSession, error)
}

type coach struct {
	rt     *workflow.Runtime
	logger *slog.Logger
}

// New creates a practice system backed by rt.
func New(rt *workflow.Runtime, logger *slog.Logger) System {
	return &coach{
		rt:     rt,
		logger: logger.With("system", "practice"),
	}
}

func (c *coach) Handler(maxBodySize int64) *Handler {
	return NewHandler(c, c.logger, maxBodySize)
}

func (c *coach) NewSession(ctx context.Context, req SessionRequest) (*workflow.PracticeSession, error) {
	session, err := workflow.NewSession(
		ctx, c.rt,
		req.TargetIssues(),
		req.SessionNumber,
		req.Difficulty,
		req.PriorSessions,
		c.progress(ctx),
	)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "session created",
		"session_id", session.SessionID,
		"session_number", session.SessionNumber,
		"questions", len(session.Questions),
	)
	return session, nil
}

func (c *coach) Grade(ctx context.Context, session *workflow.PracticeSession) (*workflow.PracticeSession, error) {
	graded, err := workflow.GradeSession(ctx, c.rt, session, c.progress(ctx))
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "session graded", "session_id", graded.SessionID, "score", *graded.Score)
	return graded, nil
}

func (c *coach) progress(ctx context.Context) workflow.Progress {
	return func(status string) {
		c.logger.DebugContext(ctx, status)
	}
}
