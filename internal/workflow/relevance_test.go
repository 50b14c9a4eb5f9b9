package workflow_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/internal/workflow"
)

func TestConfirmRelevanceKeepsConfirmed(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return "Here you go:\n```json\n" + boolArray(5, func(i int) bool { return i%2 == 0 }) + "\n```", nil
	}}
	rt, _ := newRuntime(t, model)

	got, err := workflow.ConfirmRelevance(context.Background(), rt, sampleMessages(5), nil)
	if err != nil {
		t.Fatalf("ConfirmRelevance: %v", err)
	}

	want := []string{"m1", "m3", "m5"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("kept %v, want %v", ids(got), want)
	}
}

func TestConfirmRelevanceFailsOpen(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"wrong length", "[true, false]", nil},
		{"not json", "I cannot classify these.", nil},
		{"object instead of array", `{"relevant": [true]}`, nil},
		{"model error", "", errors.New("503 service unavailable")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
				return tt.response, tt.err
			}}
			rt, _ := newRuntime(t, model)
			msgs := sampleMessages(4)

			got, err := workflow.ConfirmRelevance(context.Background(), rt, msgs, nil)
			if err != nil {
				t.Fatalf("ConfirmRelevance: %v", err)
			}
			if !slices.Equal(ids(got), ids(msgs)) {
				t.Errorf("kept %v, want all %v", ids(got), ids(msgs))
			}
		})
	}
}

func TestConfirmRelevanceFailsOpenPerBatch(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, call int) (string, error) {
		if call == 0 {
			return "[false, false]", nil
		}
		return "[false]", nil
	}}
	rt, _ := newRuntime(t, model)
	rt.Config.RelevanceBatchSize = 2

	got, err := workflow.ConfirmRelevance(context.Background(), rt, sampleMessages(4), nil)
	if err != nil {
		t.Fatalf("ConfirmRelevance: %v", err)
	}

	want := []string{"m3", "m4"}
	if !slices.Equal(ids(got), want) {
		t.Errorf("kept %v, want %v", ids(got), want)
	}
}

func TestConfirmRelevanceCooldown(t *testing.T) {
	tests := []struct {
		name    string
		batches int
		want    int
	}{
		{"fewer than four batches", 3, 0},
		{"exactly four batches", 4, 0},
		{"eight batches", 8, 1},
		{"nine batches", 9, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
				return "[true]", nil
			}}
			rt, clock := newRuntime(t, model)
			rt.Config.RelevanceBatchSize = 1

			_, err := workflow.ConfirmRelevance(context.Background(), rt, sampleMessages(tt.batches), nil)
			if err != nil {
				t.Fatalf("ConfirmRelevance: %v", err)
			}

			if len(clock.sleeps) != tt.want {
				t.Fatalf("cooldowns = %d, want %d", len(clock.sleeps), tt.want)
			}
			for _, d := range clock.sleeps {
				if d != time.Minute {
					t.Errorf("cooldown = %s, want 1m", d)
				}
			}
			if model.calls() != tt.batches {
				t.Errorf("calls = %d, want %d", model.calls(), tt.batches)
			}
		})
	}
}

func TestConfirmRelevanceProgress(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return "[true, true]", nil
	}}
	rt, _ := newRuntime(t, model)
	rt.Config.RelevanceBatchSize = 2

	var lines []string
	_, err := workflow.ConfirmRelevance(context.Background(), rt, sampleMessages(4), func(s string) {
		lines = append(lines, s)
	})
	if err != nil {
		t.Fatalf("ConfirmRelevance: %v", err)
	}

	if len(lines) != 4 {
		t.Errorf("progress lines = %d, want 4: %v", len(lines), lines)
	}
}

func TestConfirmRelevanceCancelled(t *testing.T) {
	model := &stubModel{respond: func(_ prompts.Stage, _ int) (string, error) {
		return "[true]", nil
	}}
	rt, _ := newRuntime(t, model)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := workflow.ConfirmRelevance(ctx, rt, sampleMessages(2), nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
