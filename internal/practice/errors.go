package practice

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/handlers"
)

// MapHTTPStatus maps practice errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, handlers.ErrInvalidBody) || errors.Is(err, workflow.ErrInvalidSession) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
