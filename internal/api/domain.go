package api

import (
	"github.com/JaimeStill/quill/internal/comparisons"
	"github.com/JaimeStill/quill/internal/evaluations"
	"github.com/JaimeStill/quill/internal/practice"
	"github.com/JaimeStill/quill/internal/prompts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Evaluations evaluations.System
	Practice    practice.System
	Comparisons comparisons.System
	Prompts     *prompts.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	return &Domain{
		Evaluations: evaluations.New(runtime.Workflow, runtime.Logger),
		Practice:    practice.New(runtime.Workflow, runtime.Logger),
		Comparisons: comparisons.New(runtime.Workflow, runtime.Logger),
		Prompts:     prompts.NewHandler(runtime.Logger),
	}
}
