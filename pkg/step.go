package patchwork

import (
	"time"
)

// Step is a named unit of work within a pipeline.
//
// A must-run step is the pipeline's finalizer: it executes after all other
// steps regardless of their outcome. All other steps are best-effort and
// short-circuit the pipeline on first failure.
type Step interface {
	GetName() string
	Run(context ExecutionContext) (ExecutionResult, error)
	MustRun() bool
}

// ExecutionContext is what a step receives from the invocation it runs in.
type ExecutionContext interface {
	Render(expr string, name string) (string, error)
	Vars() map[string]interface{}
	Timeout() time.Duration
}
