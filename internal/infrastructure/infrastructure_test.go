package infrastructure_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/infrastructure"
)

func load(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWithoutAPIKey(t *testing.T) {
	t.Setenv("QUILL_MODEL_API_KEY", "")

	infra, err := infrastructure.NewWithLogger(load(t), discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if infra.Model != nil {
		t.Error("model should be nil without an api key")
	}
	if rt := infra.Runtime(discard()); rt.Model != nil {
		t.Error("runtime model should be a nil interface")
	}
	if infra.Scheduler.Interval() != 2*time.Second {
		t.Errorf("interval = %s, want 2s", infra.Scheduler.Interval())
	}
}

func TestNewWithAPIKey(t *testing.T) {
	t.Setenv("QUILL_MODEL_API_KEY", "test-key")
	t.Setenv("QUILL_PIPELINE_MIN_INTERVAL", "500ms")

	cfg := load(t)
	infra, err := infrastructure.NewWithLogger(cfg, discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if infra.Model == nil {
		t.Fatal("model should be configured")
	}

	rt := infra.Runtime(discard())
	if rt.Model == nil {
		t.Error("runtime model is nil")
	}
	if rt.Config.MaxMessages != cfg.Pipeline.MaxMessages {
		t.Errorf("runtime config not carried over")
	}
	if infra.Scheduler.Interval() != 500*time.Millisecond {
		t.Errorf("interval = %s, want 500ms", infra.Scheduler.Interval())
	}
}

func TestStartAndShutdown(t *testing.T) {
	t.Setenv("QUILL_MODEL_API_KEY", "")

	infra, err := infrastructure.NewWithLogger(load(t), discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	infra.Lifecycle.WaitForStartup()
	if !infra.Lifecycle.Ready() {
		t.Error("lifecycle should be ready after startup")
	}

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if infra.Lifecycle.Ready() {
		t.Error("lifecycle should not be ready after shutdown")
	}
}

func TestNewFromContext(t *testing.T) {
	t.Setenv("QUILL_MODEL_API_KEY", "")

	ctx, cancel := context.WithCancel(context.Background())
	infra, err := infrastructure.NewFromContext(ctx, load(t), discard())
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	cancel()

	select {
	case <-infra.Lifecycle.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("lifecycle context not cancelled with parent")
	}
}
