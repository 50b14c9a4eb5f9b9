package openapi

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

// MarshalJSON encodes spec as two-space indented JSON with a trailing
// newline. HTML characters in descriptions are left unescaped.
func MarshalJSON(spec *Spec) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the encoded spec to filename, creating parent
// directories as needed.
func WriteJSON(spec *Spec, filename string) error {
	data, err := MarshalJSON(spec)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, data, 0o644)
}
