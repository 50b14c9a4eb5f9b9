// Package routes declares HTTP route groups once and uses the declaration
// both to register handlers and to document them in an OpenAPI spec.
package routes

import (
	"net/http"

	"github.com/JaimeStill/quill/pkg/openapi"
)

// Route is one method and pattern bound to a handler. Routes without
// OpenAPI metadata are served but left out of the document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix   string
	Tags     []string
	Routes   []Route
	Children []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	fullPrefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, child)
	}
}

// Document adds every route with OpenAPI metadata to spec, with paths
// rooted at basePath. Operations without tags inherit their group's tags.
func Document(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		documentGroup(spec, basePath, group, nil)
	}
}

func documentGroup(spec *openapi.Spec, parentPrefix string, group Group, parentTags []string) {
	fullPrefix := parentPrefix + group.Prefix
	tags := group.Tags
	if len(tags) == 0 {
		tags = parentTags
	}

	for _, tag := range tags {
		spec.AddTag(tag, "")
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = tags
		}

		path := fullPrefix + route.Pattern
		item, ok := spec.Paths[path]
		if !ok {
			item = &openapi.PathItem{}
			spec.Paths[path] = item
		}

		item.Set(route.Method, &op)
	}

	for _, child := range group.Children {
		documentGroup(spec, fullPrefix, child, tags)
	}
}
