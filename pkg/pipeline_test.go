package patchwork

import (
	"testing"
)

func step(name string, mustRun bool) Step {
	return CommandStep{Name: name, CommandLine: "true", Final: mustRun}
}

func TestPipelineValidate(t *testing.T) {
	tests := []struct {
		subject  string
		pipeline *Pipeline
		valid    bool
	}{
		{
			subject: "well-formed pipeline",
			pipeline: &Pipeline{Name: "build", Steps: []Step{
				step("apply-check", false),
				step("apply", false),
				step("build", false),
				step("restore", true),
			}},
			valid: true,
		},
		{
			subject: "single must-run step",
			pipeline: &Pipeline{Name: "build", Steps: []Step{
				step("restore", true),
			}},
			valid: true,
		},
		{
			subject:  "no steps",
			pipeline: &Pipeline{Name: "build", Steps: []Step{}},
			valid:    false,
		},
		{
			subject: "no trailing must-run step",
			pipeline: &Pipeline{Name: "build", Steps: []Step{
				step("apply", false),
				step("build", false),
			}},
			valid: false,
		},
		{
			subject: "must-run step in the middle",
			pipeline: &Pipeline{Name: "build", Steps: []Step{
				step("apply", false),
				step("restore", true),
				step("build", false),
			}},
			valid: false,
		},
		{
			subject: "duplicate step names",
			pipeline: &Pipeline{Name: "build", Steps: []Step{
				step("apply", false),
				step("apply", false),
				step("restore", true),
			}},
			valid: false,
		},
		{
			subject: "unnamed step",
			pipeline: &Pipeline{Name: "build", Steps: []Step{
				step("", false),
				step("restore", true),
			}},
			valid: false,
		},
	}

	for _, test := range tests {
		err := test.pipeline.Validate()
		if test.valid && err != nil {
			t.Errorf("%s: unexpected error: %v", test.subject, err)
		}
		if !test.valid && err == nil {
			t.Errorf("%s: expected error, but succeeded", test.subject)
		}
	}
}
