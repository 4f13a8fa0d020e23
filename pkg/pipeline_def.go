package patchwork

import (
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	yaml "gopkg.in/yaml.v2"

	"github.com/mumoshu/patchwork/pkg/util/maputil"
)

// PipelineDefs is the document shape of a Patchworkfile: custom pipelines
// declared in YAML, in addition to (or overriding) the built-in catalog.
type PipelineDefs struct {
	Pipelines []*PipelineDef `yaml:"pipelines"`
}

type PipelineDef struct {
	Name  string     `yaml:"name"`
	Steps []*StepDef `yaml:"steps"`
}

type StepDef struct {
	Name    string            `yaml:"name"`
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Dir     string            `yaml:"dir"`
	Env     map[string]string `yaml:"env"`
	Check   bool              `yaml:"check"`
	Final   bool              `yaml:"final"`
	Silent  bool              `yaml:"silent"`
	Timeout string            `yaml:"timeout"`
}

func ReadPipelineDefsFromBytes(data []byte) (*PipelineDefs, error) {
	if err := validatePipelineDefs(data); err != nil {
		return nil, errors.Trace(err)
	}

	defs := &PipelineDefs{}
	if err := yaml.Unmarshal(data, defs); err != nil {
		return nil, errors.Annotate(err, "failed unmarshalling pipeline definitions")
	}

	return defs, nil
}

func (d *PipelineDefs) Find(name string) *PipelineDef {
	for _, p := range d.Pipelines {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Pipeline materializes the definition into a runnable pipeline. Step
// environments inherit the invocation-wide env, with per-step entries taking
// precedence.
func (d *PipelineDef) Pipeline(cfg *Config) (*Pipeline, error) {
	steps := make([]Step, 0, len(d.Steps))

	for _, sd := range d.Steps {
		var timeout time.Duration
		if sd.Timeout != "" {
			t, err := time.ParseDuration(sd.Timeout)
			if err != nil {
				return nil, errors.Annotatef(err, "pipeline %s: step %s has an invalid timeout %q", d.Name, sd.Name, sd.Timeout)
			}
			timeout = t
		}

		env := map[string]string{}
		for k, v := range cfg.Env {
			env[k] = v
		}
		for k, v := range sd.Env {
			env[k] = v
		}

		steps = append(steps, CommandStep{
			Name:        sd.Name,
			CommandLine: sd.Command,
			Args:        sd.Args,
			Dir:         sd.Dir,
			Env:         env,
			Check:       sd.Check,
			Final:       sd.Final,
			Silent:      sd.Silent,
			Timeout:     timeout,
		})
	}

	pipeline := &Pipeline{Name: d.Name, Steps: steps}

	if err := pipeline.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	return pipeline, nil
}

// validatePipelineDefs checks the raw document against the schema before the
// typed unmarshal, so that shape mistakes produce field-level diagnostics.
func validatePipelineDefs(data []byte) error {
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Annotate(err, "failed unmarshalling pipeline definitions")
	}

	doc, err := maputil.RecursivelyStringifyKeys(raw)
	if err != nil {
		return errors.Trace(err)
	}

	schema, err := pipelineDefsSchema()
	if err != nil {
		return errors.Trace(err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return errors.Annotate(err, "failed validating pipeline definitions")
	}

	if !result.Valid() {
		for _, err := range result.Errors() {
			log.Errorf("- %s", err)
		}
		return errors.Errorf("one or more pipeline definitions are not valid: %v", result.Errors())
	}

	return nil
}

func pipelineDefsSchema() (*gojsonschema.Schema, error) {
	stepSchema := map[string]interface{}{
		"type":     "object",
		"required": []string{"name", "command"},
		"properties": map[string]interface{}{
			"name":    map[string]interface{}{"type": "string"},
			"command": map[string]interface{}{"type": "string"},
			"args": map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			},
			"dir":     map[string]interface{}{"type": "string"},
			"env":     map[string]interface{}{"type": "object"},
			"check":   map[string]interface{}{"type": "boolean"},
			"final":   map[string]interface{}{"type": "boolean"},
			"silent":  map[string]interface{}{"type": "boolean"},
			"timeout": map[string]interface{}{"type": "string"},
		},
	}

	goschema := map[string]interface{}{
		"type":     "object",
		"required": []string{"pipelines"},
		"properties": map[string]interface{}{
			"pipelines": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []string{"name", "steps"},
					"properties": map[string]interface{}{
						"name": map[string]interface{}{"type": "string"},
						"steps": map[string]interface{}{
							"type":     "array",
							"minItems": 1,
							"items":    stepSchema,
						},
					},
				},
			},
		},
	}

	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(goschema))
}
