package openapi

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

var reflector = jsonschema.Reflector{
	AllowAdditionalProperties: true,
	DoNotReference:            true,
}

// SchemaOf reflects v's Go type into a fully inlined Schema using its json
// struct tags.
func SchemaOf(v any) (*Schema, error) {
	data, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("reflect schema: %w", err)
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return &s, nil
}

// Schemas reflects each named value with SchemaOf.
func Schemas(values map[string]any) (map[string]*Schema, error) {
	out := make(map[string]*Schema, len(values))
	for name, v := range values {
		s, err := SchemaOf(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}
