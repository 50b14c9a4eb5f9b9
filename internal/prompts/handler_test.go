package prompts_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/quill/internal/prompts"
)

func setupMux() *http.ServeMux {
	h := prompts.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerStages(t *testing.T) {
	mux := setupMux()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/prompts/stages", nil)
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stages []prompts.Stage
	if err := json.NewDecoder(rec.Body).Decode(&stages); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(stages) != len(prompts.Stages()) {
		t.Errorf("len(stages) = %d, want %d", len(stages), len(prompts.Stages()))
	}
}

func TestHandlerStageContent(t *testing.T) {
	mux := setupMux()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"instructions", "/prompts/evaluate/instructions", http.StatusOK},
		{"spec", "/prompts/grade/spec", http.StatusOK},
		{"invalid stage instructions", "/prompts/banana/instructions", http.StatusBadRequest},
		{"invalid stage spec", "/prompts/banana/spec", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", tt.path, nil)
			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var content prompts.StageContent
			if err := json.NewDecoder(rec.Body).Decode(&content); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if content.Content == "" {
				t.Error("empty content")
			}
		})
	}
}

func TestHandlerRoutesDocumented(t *testing.T) {
	group := prompts.NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil))).Routes()

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			t.Errorf("%s %s has no OpenAPI operation", route.Method, route.Pattern)
		}
	}
}
