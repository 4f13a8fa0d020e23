package patchwork

import (
	"github.com/juju/errors"
)

// Catalog builds the built-in pipelines: build and run. Both share the same
// transactional shape around the working tree, differing only in the tool
// step in the middle:
//
//	apply-check -> apply -> tool -> restore (must-run)
//
// The tool's run mode appends the configured positional arguments verbatim,
// in order; they are opaque here.
type Catalog struct {
	Config *Config
}

func NewCatalog(cfg *Config) *Catalog {
	return &Catalog{Config: cfg}
}

func (c *Catalog) Names() []string {
	return []string{"build", "run"}
}

func (c *Catalog) Pipeline(name string) (*Pipeline, error) {
	switch name {
	case "build":
		return c.buildPipeline()
	case "run":
		return c.runPipeline()
	}
	return nil, errors.Errorf("no pipeline named %s in the catalog", name)
}

func (c *Catalog) buildPipeline() (*Pipeline, error) {
	if c.Config.Build.Command == "" {
		return nil, missingKeyError("build.command")
	}

	tool := CommandStep{
		Name:        "build",
		CommandLine: c.Config.Build.Command,
		Args:        c.Config.Build.Args,
		Dir:         c.Config.Build.Dir,
		Env:         c.Config.Env,
	}

	return c.transactional("build", tool)
}

// runPipeline defaults the run command to the build command: run mode is the
// same tool invoked with positional arguments.
func (c *Catalog) runPipeline() (*Pipeline, error) {
	command := c.Config.Run.Command
	if command == "" {
		command = c.Config.Build.Command
	}
	if command == "" {
		return nil, missingKeyError("run.command")
	}

	dir := c.Config.Run.Dir
	if dir == "" {
		dir = c.Config.Build.Dir
	}

	tool := CommandStep{
		Name:        "run",
		CommandLine: command,
		Args:        c.Config.Run.Args,
		Dir:         dir,
		Env:         c.Config.Env,
	}

	return c.transactional("run", tool)
}

func (c *Catalog) transactional(name string, tool Step) (*Pipeline, error) {
	cfg := c.Config

	if cfg.Patch == "" {
		return nil, missingKeyError("patch")
	}

	pipeline := &Pipeline{
		Name: name,
		Steps: []Step{
			CommandStep{Name: "apply-check", CommandLine: cfg.ApplyCheck, Dir: cfg.Tree, Check: true, Silent: true},
			CommandStep{Name: "apply", CommandLine: cfg.Apply, Dir: cfg.Tree, Silent: true},
			tool,
			CommandStep{Name: "restore", CommandLine: cfg.Restore, Dir: cfg.Tree, Final: true, Silent: true},
		},
	}

	if err := pipeline.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	return pipeline, nil
}
