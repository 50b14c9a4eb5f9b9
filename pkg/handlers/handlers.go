// Package handlers holds the JSON request and response helpers the domain
// handlers share.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrInvalidBody wraps every request decoding failure. The underlying
// cause stays reachable through errors.As, so *http.MaxBytesError can
// still be told apart.
var ErrInvalidBody = errors.New("invalid request body")

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError writes err as an ErrorBody. Server faults log at Error,
// client faults at Warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	level, msg := slog.LevelWarn, "request rejected"
	if status >= http.StatusInternalServerError {
		level, msg = slog.LevelError, "handler error"
	}
	logger.LogAttrs(context.Background(), level, msg,
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	RespondJSON(w, status, ErrorBody{Error: err.Error()})
}

// DecodeJSON reads exactly one JSON value of type T from the body. When
// maxBytes is positive the body is capped at that size.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, maxBytes int64) (T, error) {
	var v T

	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}

	dec := json.NewDecoder(body)
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return v, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if dec.More() {
		return v, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidBody)
	}

	return v, nil
}
