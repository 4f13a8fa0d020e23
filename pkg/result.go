package patchwork

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ExecutionResult is the outcome of running one step's command.
type ExecutionResult struct {
	Step    string
	Success bool
	Status  int
	Output  string
}

// PipelineResult aggregates the per-step results of one pipeline invocation.
//
// Success is computed over the non-must-run steps only: a failure of the
// trailing must-run step is recorded in RestoreErr and reported as a warning,
// but never flips an otherwise-successful invocation to failure.
type PipelineResult struct {
	Pipeline   string
	Results    []ExecutionResult
	Success    bool
	FailedStep string
	RestoreErr error
	Err        error
}

// RestoreFailed reports whether the must-run restore step itself failed,
// meaning the working tree may have been left dirty.
func (r *PipelineResult) RestoreFailed() bool {
	return r.RestoreErr != nil
}

// ExitStatus is the status the process should exit with: 0 on overall
// success, the first failing step's own exit status when it terminated with
// one, and 1 for every other kind of failure.
func (r *PipelineResult) ExitStatus() int {
	if r.Success {
		return 0
	}
	if execErr, ok := errors.Cause(r.Err).(*ExecutionError); ok && execErr.Reason == NonZeroExit {
		return execErr.Status
	}
	return 1
}

// Diagnostics folds the step failure and the restore warning, if any, into
// one error for reporting.
func (r *PipelineResult) Diagnostics() error {
	var result *multierror.Error
	if r.Err != nil {
		result = multierror.Append(result, r.Err)
	}
	if r.RestoreErr != nil {
		result = multierror.Append(result, r.RestoreErr)
	}
	return result.ErrorOrNil()
}

// FailedOutput is the captured output of the first failing step, shown to the
// user as the failure's cause.
func (r *PipelineResult) FailedOutput() string {
	for _, res := range r.Results {
		if res.Step == r.FailedStep {
			return res.Output
		}
	}
	return ""
}
