package patchwork

import (
	"fmt"
	"time"
)

type pipelineExecutionContext struct {
	pipeline *Pipeline
	vars     map[string]interface{}
	timeout  time.Duration
}

func NewPipelineExecutionContext(pipeline *Pipeline, vars map[string]interface{}, timeout time.Duration) ExecutionContext {
	if vars == nil {
		vars = map[string]interface{}{}
	}
	return pipelineExecutionContext{
		pipeline: pipeline,
		vars:     vars,
		timeout:  timeout,
	}
}

func (c pipelineExecutionContext) Render(expr string, name string) (string, error) {
	return RenderTemplate(fmt.Sprintf("%s.%s", c.pipeline.Name, name), expr, c.vars)
}

func (c pipelineExecutionContext) Vars() map[string]interface{} {
	return c.vars
}

func (c pipelineExecutionContext) Timeout() time.Duration {
	return c.timeout
}
