package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/quill/internal/comparisons"
	"github.com/JaimeStill/quill/internal/config"
	"github.com/JaimeStill/quill/internal/evaluations"
	"github.com/JaimeStill/quill/internal/practice"
	"github.com/JaimeStill/quill/internal/prompts"
	"github.com/JaimeStill/quill/internal/workflow"
	"github.com/JaimeStill/quill/pkg/openapi"
	"github.com/JaimeStill/quill/pkg/routes"
)

// Groups returns the route groups served by the API module.
func Groups(domain *Domain, runtime *Runtime) []routes.Group {
	return []routes.Group{
		domain.Evaluations.Handler(runtime.MaxBodySize).Routes(),
		domain.Practice.Handler(runtime.MaxBodySize).Routes(),
		domain.Comparisons.Handler(runtime.MaxBodySize).Routes(),
		domain.Prompts.Routes(),
		newQueueHandler(runtime.Scheduler, runtime.Logger).routes(),
	}
}

var tagDocs = []struct{ name, description string }{
	{"Evaluations", "Filter chat exports and run the writing evaluation pipeline."},
	{"Practice", "Generate and grade targeted practice sessions."},
	{"Comparisons", "Compare two analyses of the same learner."},
	{"Prompts", "Inspect the instructions used at each pipeline stage."},
	{"Queue", "Model call backlog."},
}

// NewSpec documents groups as an OpenAPI document served under the
// configured base path.
func NewSpec(cfg *config.Config, groups []routes.Group) (*openapi.Spec, error) {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.OpenAPI.Server(cfg.API.BasePath))

	for _, tag := range tagDocs {
		spec.AddTag(tag.name, tag.description)
	}
	routes.Document(spec, "", groups...)

	schemas, err := openapi.Schemas(map[string]any{
		"EvaluateRequest":  evaluations.EvaluateRequest{},
		"FilterResult":     evaluations.FilterResult{},
		"Run":              workflow.Run{},
		"SessionRequest":   practice.SessionRequest{},
		"PracticeSession":  workflow.PracticeSession{},
		"CompareRequest":   comparisons.CompareRequest{},
		"ComparisonResult": workflow.ComparisonResult{},
		"StageContent":     prompts.StageContent{},
		"QueueStatus":      QueueStatus{},
	})
	if err != nil {
		return nil, fmt.Errorf("openapi schemas: %w", err)
	}
	spec.Components.AddSchemas(schemas)

	return spec, nil
}

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config, runtime *Runtime) error {
	groups := Groups(domain, runtime)
	routes.Register(mux, groups...)

	spec, err := NewSpec(cfg, groups)
	if err != nil {
		return err
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("openapi encode: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(data))

	return nil
}
