// Package practice serves practice session generation and grading.
package practice

import (
	"github.com/JaimeStill/quill/internal/workflow"
)

// SessionRequest asks for a new practice session. When Issues is empty
// the ranked issues of Analysis are used instead.
type SessionRequest struct {
	Issues        []workflow.TargetIssue     `json:"issues,omitempty"`
	Analysis      *workflow.Analysis         `json:"analysis,omitempty"`
	SessionNumber int                        `json:"session_number" jsonschema:"minimum=1"`
	Difficulty    string                     `json:"difficulty,omitempty" jsonschema:"enum=beginner,enum=intermediate,enum=advanced"`
	PriorSessions []workflow.PracticeSession `json:"prior_sessions,omitempty" jsonschema:"description=Earlier sessions whose questions must not repeat"`
}

// TargetIssues resolves the issues the session should practice.
func (r SessionRequest) TargetIssues() []workflow.TargetIssue {
	if len(r.Issues) > 0 || r.Analysis == nil {
		return r.Issues
	}
	return r.Analysis.RankedIssues()
}
