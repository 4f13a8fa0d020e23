package patchwork

import (
	"github.com/juju/errors"
)

// Pipeline is an ordered sequence of steps ending in exactly one must-run
// finalizer. Pipelines are static configuration: built once, never mutated.
type Pipeline struct {
	Name  string
	Steps []Step
}

// Validate enforces the pipeline shape: at least one step, unique step names,
// and exactly one must-run step which is the trailing one.
func (p *Pipeline) Validate() error {
	if len(p.Steps) == 0 {
		return errors.Errorf("pipeline %s has no steps", p.Name)
	}

	seen := map[string]bool{}
	for i, s := range p.Steps {
		name := s.GetName()
		if name == "" {
			return errors.Errorf("pipeline %s has an unnamed step at index %d", p.Name, i)
		}
		if seen[name] {
			return errors.Errorf("pipeline %s has a duplicate step name %s", p.Name, name)
		}
		seen[name] = true

		if s.MustRun() && i != len(p.Steps)-1 {
			return errors.Errorf("pipeline %s: must-run step %s is not the trailing step", p.Name, name)
		}
	}

	if !p.Steps[len(p.Steps)-1].MustRun() {
		return errors.Errorf("pipeline %s does not end with a must-run step", p.Name)
	}

	return nil
}

func (p *Pipeline) prefix() []Step {
	return p.Steps[:len(p.Steps)-1]
}

func (p *Pipeline) finalizer() Step {
	return p.Steps[len(p.Steps)-1]
}
