package evaluations

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/openapi"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Handler provides HTTP endpoints for evaluation operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "evaluations"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for evaluation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/evaluations",
		Tags:   []string{"Evaluations"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Evaluate, OpenAPI: evaluateOp},
			{Method: "POST", Pattern: "/filter", Handler: h.Filter, OpenAPI: filterOp},
		},
	}
}

// Evaluate runs the full pipeline over the request's messages.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[EvaluateRequest](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	progress := func(status string) {
		h.logger.DebugContext(r.Context(), status)
	}

	run, err := h.sys.Evaluate(r.Context(), req, progress)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, run)
}

// Filter applies only the local heuristic filter. No model calls are made.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[EvaluateRequest](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.Filter(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

var evaluateOp = &openapi.Operation{
	Summary:     "Evaluate writing",
	Description: "Filters, confirms, scores, and analyzes the writing-task messages in a chat history.",
	RequestBody: openapi.RequestBodyJSON("EvaluateRequest", true),
	Responses: openapi.Responses(
		openapi.ResponseJSON("Completed evaluation run", "Run"),
		400, 413, 422, 500,
	),
}

var filterOp = &openapi.Operation{
	Summary:     "Filter messages",
	Description: "Applies the local writing-task heuristic without calling the model.",
	RequestBody: openapi.RequestBodyJSON("EvaluateRequest", true),
	Responses: openapi.Responses(
		openapi.ResponseJSON("Messages kept by the heuristic", "FilterResult"),
		400, 413, 500,
	),
}
