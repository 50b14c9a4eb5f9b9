package practice

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/openapi"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Handler provides HTTP endpoints for practice sessions.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxBodySize int64
}

// NewHandler creates a Handler with the given system, logger, and request body limit.
func NewHandler(sys System, logger *slog.Logger, maxBodySize int64) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "practice"),
		maxBodySize: maxBodySize,
	}
}

// Routes returns the route group definition for practice endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/practice/sessions",
		Tags:   []string{"Practice"},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Create, OpenAPI: createOp},
			{Method: "POST", Pattern: "/grade", Handler: h.Grade, OpenAPI: gradeOp},
		},
	}
}

// Create generates a new practice session.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := handlers.DecodeJSON[SessionRequest](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	session, err := h.sys.NewSession(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, session)
}

// Grade grades a session whose user_answers are filled in.
func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	session, err := handlers.DecodeJSON[workflow.PracticeSession](w, r, h.maxBodySize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	graded, err := h.sys.Grade(r.Context(), &session)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, graded)
}

var createOp = &openapi.Operation{
	Summary:     "Create practice session",
	Description: "Generates questions targeting the highest ranked issues, avoiding questions from prior sessions.",
	RequestBody: openapi.RequestBodyJSON("SessionRequest", true),
	Responses: map[int]*openapi.Response{
		201: openapi.ResponseJSON("Generated session", "PracticeSession"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		500: openapi.ResponseRef("InternalError"),
	},
}

var gradeOp = &openapi.Operation{
	Summary:     "Grade practice session",
	Description: "Grades each answer programmatically, by similarity, or with the model, and records the score.",
	RequestBody: openapi.RequestBodyJSON("PracticeSession", true),
	Responses: openapi.Responses(
		openapi.ResponseJSON("Graded session", "PracticeSession"),
		400, 413, 500,
	),
}
