package openapi

import "net/http"

const (
	schemaPrefix   = "#/components/schemas/"
	responsePrefix = "#/components/responses/"
	mediaJSON      = "application/json"
)

func SchemaRef(name string) *Schema {
	return &Schema{Ref: schemaPrefix + name}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: responsePrefix + name}
}

func jsonContent(schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{mediaJSON: {Schema: schema}}
}

// RequestBodyJSON is a JSON body whose schema is the named component.
func RequestBodyJSON(schemaName string, required bool) *RequestBody {
	return &RequestBody{Required: required, Content: jsonContent(SchemaRef(schemaName))}
}

// ResponseJSON is a JSON response whose schema is the named component.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{Description: description, Content: jsonContent(SchemaRef(schemaName))}
}

// PathParam is a required string path segment, optionally restricted to enum.
func PathParam(name, description string, enum ...any) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Enum: enum},
	}
}

// ErrorResponses maps each status to its shared component response.
// Statuses without a shared response are skipped.
func ErrorResponses(statuses ...int) map[int]*Response {
	out := make(map[int]*Response, len(statuses)+1)
	for _, status := range statuses {
		if e, ok := lookupError(status); ok {
			out[status] = ResponseRef(e.name)
		}
	}
	return out
}

// Responses is ErrorResponses(statuses...) plus ok under 200.
func Responses(ok *Response, statuses ...int) map[int]*Response {
	out := ErrorResponses(statuses...)
	out[http.StatusOK] = ok
	return out
}
