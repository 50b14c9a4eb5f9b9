package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/openapi"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Handler exposes stage prompts over HTTP for inspection.
type Handler struct {
	logger *slog.Logger
}

// StageContent is the response type for stage-scoped content endpoints.
type StageContent struct {
	Stage   Stage  `json:"stage"`
	Content string `json:"content"`
}

// NewHandler creates a Handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger.With("handler", "prompts"),
	}
}

// Routes returns the route group definition for prompt endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/prompts",
		Tags:   []string{"Prompts"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/stages", Handler: h.Stages, OpenAPI: stagesOp()},
			{Method: "GET", Pattern: "/{stage}/instructions", Handler: h.Instructions, OpenAPI: contentOp("Stage instructions")},
			{Method: "GET", Pattern: "/{stage}/spec", Handler: h.Spec, OpenAPI: contentOp("Stage response specification")},
		},
	}
}

// Stages returns the list of model-calling stages.
func (h *Handler) Stages(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Stages())
}

// Instructions returns the instructions for a stage.
func (h *Handler) Instructions(w http.ResponseWriter, r *http.Request) {
	h.content(w, r, Instructions)
}

// Spec returns the response specification for a stage.
func (h *Handler) Spec(w http.ResponseWriter, r *http.Request) {
	h.content(w, r, Spec)
}

func (h *Handler) content(w http.ResponseWriter, r *http.Request, fn func(Stage) (string, error)) {
	stage, err := ParseStage(r.PathValue("stage"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	text, err := fn(stage)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, StageContent{Stage: stage, Content: text})
}

func stageEnum() []any {
	out := make([]any, len(stages))
	for i, s := range stages {
		out[i] = string(s)
	}
	return out
}

func stagesOp() *openapi.Operation {
	return &openapi.Operation{
		Summary: "List model stages",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Model-calling stages in pipeline order",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{
						Type:  "array",
						Items: &openapi.Schema{Type: "string", Enum: stageEnum()},
					}},
				},
			},
		},
	}
}

func contentOp(summary string) *openapi.Operation {
	return &openapi.Operation{
		Summary:    summary,
		Parameters: []*openapi.Parameter{openapi.PathParam("stage", "Pipeline stage", stageEnum()...)},
		Responses: openapi.Responses(
			openapi.ResponseJSON(summary, "StageContent"),
			400, 500,
		),
	}
}
