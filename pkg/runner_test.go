package patchwork

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

type fakeStep struct {
	name    string
	mustRun bool
	err     error
	runs    *int
}

func (s fakeStep) GetName() string {
	return s.name
}

func (s fakeStep) MustRun() bool {
	return s.mustRun
}

func (s fakeStep) Run(context ExecutionContext) (ExecutionResult, error) {
	*s.runs++
	res := ExecutionResult{Step: s.name, Success: s.err == nil}
	return res, s.err
}

func counters(n int) []*int {
	cs := make([]*int, n)
	for i := range cs {
		cs[i] = new(int)
	}
	return cs
}

func TestRunnerShortCircuitsOnFirstFailure(t *testing.T) {
	cs := counters(4)
	pipeline := &Pipeline{
		Name: "build",
		Steps: []Step{
			fakeStep{name: "a", runs: cs[0]},
			fakeStep{name: "b", runs: cs[1], err: fmt.Errorf("simulated failure")},
			fakeStep{name: "c", runs: cs[2]},
			fakeStep{name: "restore", runs: cs[3], mustRun: true},
		},
	}

	result, err := NewPipelineRunner(nil, 0).Run(pipeline)
	if err == nil {
		t.Fatal("expected error, but succeeded")
	}

	if result.Success {
		t.Error("expected the invocation to be reported as failed")
	}
	if result.FailedStep != "b" {
		t.Errorf("unexpected failed step: %s", result.FailedStep)
	}
	if *cs[0] != 1 {
		t.Errorf("step a ran %d times", *cs[0])
	}
	if *cs[2] != 0 {
		t.Errorf("step c ran %d times after the failure of b", *cs[2])
	}
	if *cs[3] != 1 {
		t.Errorf("must-run step ran %d times", *cs[3])
	}
}

func TestRunnerAlwaysRunsFinalizerOnSuccess(t *testing.T) {
	cs := counters(3)
	pipeline := &Pipeline{
		Name: "build",
		Steps: []Step{
			fakeStep{name: "a", runs: cs[0]},
			fakeStep{name: "b", runs: cs[1]},
			fakeStep{name: "restore", runs: cs[2], mustRun: true},
		},
	}

	result, err := NewPipelineRunner(nil, 0).Run(pipeline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Success {
		t.Error("expected the invocation to succeed")
	}
	if *cs[2] != 1 {
		t.Errorf("must-run step ran %d times", *cs[2])
	}
	if result.ExitStatus() != 0 {
		t.Errorf("unexpected exit status: %d", result.ExitStatus())
	}
}

func TestRunnerReportsRestoreFailureAsWarning(t *testing.T) {
	cs := counters(2)
	pipeline := &Pipeline{
		Name: "build",
		Steps: []Step{
			fakeStep{name: "a", runs: cs[0]},
			fakeStep{name: "restore", runs: cs[1], mustRun: true, err: fmt.Errorf("tree is locked")},
		},
	}

	result, err := NewPipelineRunner(nil, 0).Run(pipeline)
	if err != nil {
		t.Fatalf("a restore failure must not flip the verdict, got: %v", err)
	}

	if !result.Success {
		t.Error("expected the invocation to succeed despite the restore failure")
	}
	if !result.RestoreFailed() {
		t.Error("expected the restore failure to be recorded")
	}
	if result.ExitStatus() != 0 {
		t.Errorf("unexpected exit status: %d", result.ExitStatus())
	}
	if result.Diagnostics() == nil {
		t.Error("expected diagnostics to surface the restore failure")
	}
}

func TestRunnerPropagatesExitStatusOfFirstFailingStep(t *testing.T) {
	cs := counters(2)
	execErr := &ExecutionError{Reason: NonZeroExit, Program: "make", Status: 42}
	pipeline := &Pipeline{
		Name: "build",
		Steps: []Step{
			fakeStep{name: "build", runs: cs[0], err: execErr},
			fakeStep{name: "restore", runs: cs[1], mustRun: true},
		},
	}

	result, err := NewPipelineRunner(nil, 0).Run(pipeline)
	if err == nil {
		t.Fatal("expected error, but succeeded")
	}

	if result.ExitStatus() != 42 {
		t.Errorf("unexpected exit status: %d", result.ExitStatus())
	}

	if cause, ok := errors.Cause(result.Err).(*ExecutionError); !ok || cause != execErr {
		t.Errorf("unexpected cause: %v", errors.Cause(result.Err))
	}
}

func TestRunnerFallsBackToStatusOneForOtherFailures(t *testing.T) {
	cs := counters(2)
	pipeline := &Pipeline{
		Name: "build",
		Steps: []Step{
			fakeStep{name: "build", runs: cs[0], err: fmt.Errorf("no status here")},
			fakeStep{name: "restore", runs: cs[1], mustRun: true},
		},
	}

	result, err := NewPipelineRunner(nil, 0).Run(pipeline)
	if err == nil {
		t.Fatal("expected error, but succeeded")
	}

	if result.ExitStatus() != 1 {
		t.Errorf("unexpected exit status: %d", result.ExitStatus())
	}
}

func TestRunnerRejectsInvalidPipeline(t *testing.T) {
	cs := counters(1)
	pipeline := &Pipeline{
		Name: "build",
		Steps: []Step{
			fakeStep{name: "a", runs: cs[0]},
		},
	}

	result, err := NewPipelineRunner(nil, 0).Run(pipeline)
	if err == nil {
		t.Fatal("expected error, but succeeded")
	}
	if result != nil {
		t.Errorf("unexpected result: %+v", result)
	}
	if *cs[0] != 0 {
		t.Errorf("step a ran %d times in an invalid pipeline", *cs[0])
	}
}
