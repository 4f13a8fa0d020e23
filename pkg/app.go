package patchwork

import (
	"os"
	"path/filepath"

	"github.com/juju/errors"
	shellwords "github.com/mattn/go-shellwords"
	bunyan "github.com/mumoshu/logrus-bunyan-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/mumoshu/patchwork/pkg/util/fileutil"
)

// DefaultDefinitionsFile is the Patchworkfile looked up in the working
// directory when no definitions source is configured.
const DefaultDefinitionsFile = "Patchworkfile"

type Application struct {
	Name        string
	ConfigFile  string
	Verbose     bool
	Output      string
	Colorize    bool
	LogToStderr bool
	Env         string
	Viper       *viper.Viper
	Log         *logrus.Logger
}

func (p *Application) UpdateLoggingConfiguration() error {
	if p.Verbose {
		p.Log.SetLevel(logrus.DebugLevel)
	} else if level, err := logrus.ParseLevel(p.Viper.GetString("log_level")); err == nil {
		p.Log.SetLevel(level)
	}

	if p.LogToStderr {
		p.Log.SetOutput(os.Stderr)
	}

	commandName := filepath.Base(os.Args[0])
	switch p.Output {
	case "bunyan":
		p.Log.SetFormatter(&bunyan.Formatter{Name: commandName})
	case "json":
		p.Log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		p.Log.SetFormatter(newTextFormatter(p.Viper, p.Colorize))
	case "message":
		p.Log.SetFormatter(&MessageOnlyFormatter{})
	default:
		return errors.Errorf("unexpected output format specified: %s", p.Output)
	}

	return nil
}

func (p *Application) LoadConfig() (*Config, error) {
	return NewConfigFromViper(p.Viper)
}

// DefinitionsSource resolves where custom pipeline definitions come from: the
// configured source when set, the default Patchworkfile when one exists in
// the working directory, and the empty string otherwise.
func (p *Application) DefinitionsSource() (string, error) {
	cfg, err := p.LoadConfig()
	if err != nil {
		return "", NewInitError(err)
	}

	if cfg.Definitions != "" {
		return cfg.Definitions, nil
	}

	if fileutil.Exists(DefaultDefinitionsFile) {
		return DefaultDefinitionsFile, nil
	}

	return "", nil
}

// RunPipeline runs one of the built-in catalog pipelines.
func (p *Application) RunPipeline(name string) (*PipelineResult, error) {
	return p.RunPipelineFromDefs(nil, name)
}

// RunPipelineFromDefs runs the named pipeline, with definitions taking
// precedence over the built-in catalog when both declare the name.
func (p *Application) RunPipelineFromDefs(defs *PipelineDefs, name string) (*PipelineResult, error) {
	cfg, err := p.LoadConfig()
	if err != nil {
		return nil, NewInitError(err)
	}

	var pipeline *Pipeline
	if defs != nil {
		if d := defs.Find(name); d != nil {
			pipeline, err = d.Pipeline(cfg)
			if err != nil {
				return nil, NewInitError(err)
			}
		}
	}
	if pipeline == nil {
		pipeline, err = NewCatalog(cfg).Pipeline(name)
		if err != nil {
			return nil, NewInitError(err)
		}
	}

	vars, err := p.vars(cfg)
	if err != nil {
		return nil, NewInitError(err)
	}

	runner := NewPipelineRunner(vars, cfg.Timeout)

	result, err := runner.Run(pipeline)
	if err != nil {
		if result == nil {
			return nil, NewInitError(err)
		}
		return result, NewCommandError(name, result.ExitStatus(), result.FailedOutput(), err)
	}

	return result, nil
}

// RunChecker invokes the configured checker command in its own working
// directory, independent of the patched tree. Not a pipeline: nothing is
// mutated, so nothing needs restoring.
func (p *Application) RunChecker() (ExecutionResult, error) {
	var result ExecutionResult

	cfg, err := p.LoadConfig()
	if err != nil {
		return result, NewInitError(err)
	}

	if cfg.Check.Command == "" {
		return result, NewInitError(missingKeyError("check.command"))
	}
	if cfg.Check.Dir == "" {
		return result, NewInitError(missingKeyError("check.dir"))
	}

	vars, err := p.vars(cfg)
	if err != nil {
		return result, NewInitError(err)
	}

	commandLine, err := RenderTemplate("check.command", cfg.Check.Command, vars)
	if err != nil {
		return result, NewInitError(err)
	}

	words, err := shellwords.Parse(commandLine)
	if err != nil {
		return result, NewInitError(errors.Annotatef(err, "failed splitting command %q", commandLine))
	}
	if len(words) == 0 {
		return result, NewInitError(errors.New("check.command is empty"))
	}

	result, err = RunCommand(Command{
		Program: words[0],
		Args:    append(words[1:], cfg.Check.Args...),
		Dir:     cfg.Check.Dir,
		Env:     cfg.Env,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		status := 1
		if execErr, ok := err.(*ExecutionError); ok && execErr.Reason == NonZeroExit {
			status = execErr.Status
		}
		return result, NewCommandError("check", status, result.Output, err)
	}

	return result, nil
}

// vars are the template variables step expressions render against. The patch
// path is resolved to an absolute one so that steps can reference it from any
// working directory.
func (p *Application) vars(cfg *Config) (map[string]interface{}, error) {
	vars := map[string]interface{}{
		"env": p.Env,
	}

	tree := cfg.Tree
	if tree == "" {
		tree = "."
	}
	absTree, err := filepath.Abs(tree)
	if err != nil {
		return nil, errors.Annotatef(err, "failed resolving tree %s", tree)
	}
	vars["tree"] = absTree

	if cfg.Patch != "" {
		patch, err := cfg.ResolvePatch()
		if err != nil {
			return nil, errors.Trace(err)
		}
		vars["patch"] = patch
	}

	return vars, nil
}
