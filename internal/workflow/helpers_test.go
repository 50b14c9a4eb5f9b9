package workflow_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/quill/internal/messages"
	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/internal/workflow"
)

type stubModel struct {
	mu      sync.Mutex
	prompts []string
	respond func(stage prompts.Stage, call int) (string, error)
}

func (m *stubModel) Call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	n := len(m.prompts) - 1
	m.mu.Unlock()

	return m.respond(stageOf(prompt), n)
}

func (m *stubModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *stubModel) callsFor(stage prompts.Stage) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.prompts {
		if stageOf(p) == stage {
			n++
		}
	}
	return n
}

func stageOf(prompt string) prompts.Stage {
	for _, s := range prompts.Stages() {
		inst, _ := prompts.Instructions(s)
		if strings.HasPrefix(prompt, inst) {
			return s
		}
	}
	return ""
}

type recordingClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *recordingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *recordingClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return ctx.Err()
}

func newRuntime(t *testing.T, model workflow.Caller) (*workflow.Runtime, *recordingClock) {
	t.Helper()

	cfg := workflow.Config{}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	clock := &recordingClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	rt := &workflow.Runtime{
		Config: cfg,
		Clock:  clock,
	}
	if model != nil {
		rt.Model = model
	}
	return rt, clock
}

func sampleMessages(n int) []messages.Message {
	out := make([]messages.Message, n)
	for i := range out {
		out[i] = messages.Message{
			ID:             fmt.Sprintf("m%d", i+1),
			Text:           fmt.Sprintf("message body number %d", i+1),
			Timestamp:      int64(1700000000 + i),
			ConversationID: i % 3,
		}
	}
	return out
}

func ids(msgs []messages.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func boolArray(n int, fn func(i int) bool) string {
	vals := make([]string, n)
	for i := range vals {
		vals[i] = strconv.FormatBool(fn(i))
	}
	return "[" + strings.Join(vals, ",") + "]"
}
