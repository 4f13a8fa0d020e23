package patchwork

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// PipelineRunner executes one pipeline invocation at a time: the non-must-run
// prefix in declared order, short-circuiting on first failure, then the
// trailing must-run step on every exit path.
type PipelineRunner struct {
	Vars    map[string]interface{}
	Timeout time.Duration
}

func NewPipelineRunner(vars map[string]interface{}, timeout time.Duration) PipelineRunner {
	return PipelineRunner{
		Vars:    vars,
		Timeout: timeout,
	}
}

func (t PipelineRunner) Run(pipeline *Pipeline) (*PipelineResult, error) {
	if err := pipeline.Validate(); err != nil {
		return nil, errors.Wrapf(err, "PipelineRunner#Run failed validating pipeline %s", pipeline.Name)
	}

	ctx := log.WithFields(log.Fields{"pipeline": pipeline.Name})
	context := NewPipelineExecutionContext(pipeline, t.Vars, t.Timeout)

	result := &PipelineResult{Pipeline: pipeline.Name, Success: true}

	// The finalizer is tied to the invocation's lifetime rather than being an
	// ordinary step, so that short-circuiting can never skip it.
	defer func() {
		final := pipeline.finalizer()
		ctx.Debugf("step %s started", final.GetName())
		res, err := final.Run(context)
		result.Results = append(result.Results, res)
		if err != nil {
			result.RestoreErr = &RestoreError{Step: final.GetName(), err: err}
			ctx.Warnf("%v", result.RestoreErr)
		} else {
			ctx.Debugf("step %s finished", final.GetName())
		}
	}()

	for _, s := range pipeline.prefix() {
		ctx.Debugf("step %s started", s.GetName())

		res, err := s.Run(context)
		result.Results = append(result.Results, res)

		if err != nil {
			result.Success = false
			result.FailedStep = s.GetName()
			result.Err = errors.Wrapf(err, "PipelineRunner#Run failed while running step %s", s.GetName())
			ctx.Debugf("pipeline short-circuited at step %s", s.GetName())
			break
		}

		ctx.Debugf("step %s finished", s.GetName())
	}

	return result, result.Err
}
