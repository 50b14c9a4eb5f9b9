package prompts

import (
	"errors"
	"net/http"
)

// Domain errors for prompt operations.
var (
	ErrInvalidStage = errors.New("stage must be relevance, evaluate, analyze, practice, grade, or compare")
	ErrEncodeInput  = errors.New("failed to encode prompt input")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidStage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
