package evaluations

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/quill/internal/messages"
	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/handlers"
)

// ErrNoInput is returned when a request carries neither messages nor an export.
var ErrNoInput = errors.New("request must include messages or export")

// MapHTTPStatus maps evaluation errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, handlers.ErrInvalidBody) ||
		errors.Is(err, messages.ErrInvalidExport) {
		return http.StatusBadRequest
	}
	if errors.Is(err, workflow.ErrEmptyResult) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
