package openapi

import (
	"maps"
	"net/http"
	"slices"
)

type sharedError struct {
	status      int
	name        string
	description string
}

// sharedErrors are the failure responses every endpoint draws from. Each
// carries the {"error": "..."} body written by the handlers package.
var sharedErrors = []sharedError{
	{http.StatusBadRequest, "BadRequest", "Malformed or invalid request body"},
	{http.StatusRequestEntityTooLarge, "PayloadTooLarge", "Request body exceeds the configured limit"},
	{http.StatusUnprocessableEntity, "UnprocessableEntity", "No messages remained after a pipeline stage"},
	{http.StatusInternalServerError, "InternalError", "Unexpected server error"},
}

func lookupError(status int) (sharedError, bool) {
	i := slices.IndexFunc(sharedErrors, func(e sharedError) bool { return e.status == status })
	if i < 0 {
		return sharedError{}, false
	}
	return sharedErrors[i], true
}

// NewComponents returns the Error schema and one response per shared error.
func NewComponents() *Components {
	c := &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:       "object",
				Properties: map[string]*Schema{"error": {Type: "string", Description: "Error message"}},
				Required:   []string{"error"},
			},
		},
		Responses: make(map[string]*Response, len(sharedErrors)),
	}
	for _, e := range sharedErrors {
		c.Responses[e.name] = &Response{Description: e.description, Content: jsonContent(SchemaRef("Error"))}
	}
	return c
}

func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
