package patchwork

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
)

func TestReadPipelineDefsFromBytes(t *testing.T) {
	doc := `
pipelines:
- name: rebuild
  steps:
  - name: clean
    command: make clean
    dir: "{{.tree}}"
    silent: true
  - name: build
    command: make build
    args:
    - -j4
    env:
      CC: clang
    timeout: 5m
  - name: restore
    command: git checkout -- .
    dir: "{{.tree}}"
    final: true
`

	defs, err := ReadPipelineDefsFromBytes([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := &PipelineDefs{
		Pipelines: []*PipelineDef{
			{
				Name: "rebuild",
				Steps: []*StepDef{
					{Name: "clean", Command: "make clean", Dir: "{{.tree}}", Silent: true},
					{Name: "build", Command: "make build", Args: []string{"-j4"}, Env: map[string]string{"CC": "clang"}, Timeout: "5m"},
					{Name: "restore", Command: "git checkout -- .", Dir: "{{.tree}}", Final: true},
				},
			},
		},
	}

	if diff := cmp.Diff(expected, defs); diff != "" {
		t.Errorf("unexpected defs: %s\nparsed: %s", diff, spew.Sdump(defs))
	}

	if defs.Find("rebuild") == nil {
		t.Error("expected to find the rebuild pipeline")
	}
	if defs.Find("nosuch") != nil {
		t.Error("expected no pipeline named nosuch")
	}
}

func TestReadPipelineDefsRejectsMissingCommand(t *testing.T) {
	doc := `
pipelines:
- name: broken
  steps:
  - name: step-without-command
`

	if _, err := ReadPipelineDefsFromBytes([]byte(doc)); err == nil {
		t.Fatal("expected error, but succeeded")
	}
}

func TestReadPipelineDefsRejectsMissingSteps(t *testing.T) {
	doc := `
pipelines:
- name: empty
  steps: []
`

	if _, err := ReadPipelineDefsFromBytes([]byte(doc)); err == nil {
		t.Fatal("expected error, but succeeded")
	}
}

func TestPipelineDefMaterialization(t *testing.T) {
	def := &PipelineDef{
		Name: "custom",
		Steps: []*StepDef{
			{Name: "work", Command: "make", Env: map[string]string{"CC": "clang"}, Timeout: "30s"},
			{Name: "restore", Command: "git checkout -- .", Final: true},
		},
	}

	cfg := &Config{Env: map[string]string{"CC": "gcc", "LANG": "C"}}

	pipeline, err := def.Pipeline(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	work := pipeline.Steps[0].(CommandStep)
	// Per-step env wins over the invocation-wide one.
	if work.Env["CC"] != "clang" {
		t.Errorf("unexpected CC: %s", work.Env["CC"])
	}
	if work.Env["LANG"] != "C" {
		t.Errorf("unexpected LANG: %s", work.Env["LANG"])
	}
	if work.Timeout.Seconds() != 30 {
		t.Errorf("unexpected timeout: %v", work.Timeout)
	}
}

func TestPipelineDefRejectsMissingFinalizer(t *testing.T) {
	def := &PipelineDef{
		Name: "custom",
		Steps: []*StepDef{
			{Name: "work", Command: "make"},
		},
	}

	if _, err := def.Pipeline(&Config{}); err == nil {
		t.Fatal("expected error, but succeeded")
	}
}

func TestPipelineDefRejectsInvalidTimeout(t *testing.T) {
	def := &PipelineDef{
		Name: "custom",
		Steps: []*StepDef{
			{Name: "work", Command: "make", Timeout: "soon"},
			{Name: "restore", Command: "git checkout -- .", Final: true},
		},
	}

	if _, err := def.Pipeline(&Config{}); err == nil {
		t.Fatal("expected error, but succeeded")
	}
}
