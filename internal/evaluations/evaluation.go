// Package evaluations exposes the evaluation pipeline over HTTP: chat
// messages or a raw export go in, a scored Run comes out.
package evaluations

import (
	"bytes"
	"encoding/json"

	"github.com/JaimeStill/quill/internal/messages"
)

// EvaluateRequest carries the messages to evaluate. Export takes
// precedence over Messages when both are set.
type EvaluateRequest struct {
	Messages    []messages.Message `json:"messages,omitempty"`
	Export      json.RawMessage    `json:"export,omitempty" jsonschema:"type=array,description=Raw conversations.json export or a flat message array"`
	MaxMessages int                `json:"max_messages,omitempty" jsonschema:"description=Cap on messages sent to the model; the most recent are kept"`
}

// FilterResult is the outcome of the local heuristic filter.
type FilterResult struct {
	Input    int                `json:"input"`
	Kept     int                `json:"kept"`
	Range    messages.Span      `json:"range"`
	Messages []messages.Message `json:"messages"`
}

// Resolve returns the request's messages, parsing Export when present.
func (r EvaluateRequest) Resolve() ([]messages.Message, error) {
	if len(r.Export) > 0 {
		return messages.ParseExport(bytes.NewReader(r.Export))
	}
	if r.Messages == nil {
		return nil, ErrNoInput
	}
	return r.Messages, nil
}
