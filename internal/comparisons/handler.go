package comparisons

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/openapi"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Handler provides the HTTP endpoint for comparisons.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "comparisons"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for comparison endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/comparisons",
		Tags:   []string{"Comparisons"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Compare, OpenAPI: compareOp},
		},
	}
}

// Compare returns score changes, issue movement, and a progress narrative.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[CompareRequest](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.Compare(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

var compareOp = &openapi.Operation{
	Summary:     "Compare analyses",
	Description: "Contrasts a baseline analysis with a followup: per-dimension score change, resolved, persistent, and new issues.",
	RequestBody: openapi.RequestBodyJSON("CompareRequest", true),
	Responses: openapi.Responses(
		openapi.ResponseJSON("Comparison result", "ComparisonResult"),
		400, 413, 500,
	),
}
