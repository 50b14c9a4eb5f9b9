package prompts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Compose builds the full prompt for a stage: instructions, then the
// response specification, then input serialized as indented JSON.
func Compose(stage Stage, input any) (string, error) {
	inst, err := Instructions(stage)
	if err != nil {
		return "", err
	}

	spec, err := Spec(stage)
	if err != nil {
		return "", fmt.Errorf("build spec for %s: %w", stage, err)
	}

	data, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodeInput, err)
	}

	var sb strings.Builder
	sb.WriteString(inst)
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\nInput:\n\n")
	sb.Write(data)

	return sb.String(), nil
}
