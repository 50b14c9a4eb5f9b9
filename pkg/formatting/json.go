package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when a model response cannot be decoded as JSON
// after sanitization.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// ExtractJSON isolates a single JSON array or object from raw model output.
// Markdown fence markers are removed anywhere in the text, everything before
// the first '[' or '{' is discarded, and everything after the last matching
// closer for that opening bracket is discarded.
//
// The result is not validated. When no opening bracket exists the trimmed
// input is returned unchanged so the caller's decode fails explicitly.
func ExtractJSON(raw string) string {
	text := fencePattern.ReplaceAllString(raw, "")

	start := strings.IndexAny(text, "[{")
	if start < 0 {
		return strings.TrimSpace(raw)
	}

	closer := "}"
	if text[start] == '[' {
		closer = "]"
	}

	text = text[start:]
	if end := strings.LastIndex(text, closer); end >= 0 {
		text = text[:end+1]
	}

	return strings.TrimSpace(text)
}

// Parse sanitizes content with ExtractJSON and unmarshals the remainder into T.
// Returns ErrParseFailed when the sanitized content is not valid JSON for T.
func Parse[T any](content string) (T, error) {
	var result T
	cleaned := ExtractJSON(content)

	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return result, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	return result, nil
}
