package openapi

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"slices"
)

// Version is the OpenAPI revision documents are emitted against.
const Version = "3.1.0"

// Spec is the root of an OpenAPI document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Tags       []*Tag               `json:"tags,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// Tag names a group of operations.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    Version,
		Info:       &Info{Title: title, Version: version},
		Paths:      make(map[string]*PathItem),
		Components: NewComponents(),
	}
}

func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddTag registers a tag. A repeated name keeps its first position and
// only fills in a missing description.
func (s *Spec) AddTag(name, description string) {
	i := slices.IndexFunc(s.Tags, func(t *Tag) bool { return t.Name == name })
	if i < 0 {
		s.Tags = append(s.Tags, &Tag{Name: name, Description: description})
		return
	}
	if s.Tags[i].Description == "" {
		s.Tags[i].Description = description
	}
}

// ServeSpec serves a pre-encoded document with a content-hash ETag,
// answering matching conditional requests with 304.
func ServeSpec(data []byte) http.HandlerFunc {
	sum := sha256.Sum256(data)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`

	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("ETag", etag)
		h.Set("Cache-Control", "no-cache")

		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		h.Set("Content-Type", "application/json; charset=utf-8")
		w.Write(data)
	}
}
