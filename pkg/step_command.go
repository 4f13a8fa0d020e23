package patchwork

import (
	"fmt"
	"time"

	"github.com/juju/errors"
	shellwords "github.com/mattn/go-shellwords"
)

// CommandStep runs one external command in an explicit working directory.
// CommandLine and Dir are template expressions rendered against the
// invocation's variables; the rendered command line is split into program and
// arguments with shell word splitting, then Args are appended verbatim, in
// order.
type CommandStep struct {
	Name        string
	CommandLine string
	Args        []string
	Dir         string
	Env         map[string]string
	Check       bool
	Final       bool
	Silent      bool
	Timeout     time.Duration
}

func (s CommandStep) GetName() string {
	return s.Name
}

func (s CommandStep) MustRun() bool {
	return s.Final
}

func (s CommandStep) Run(context ExecutionContext) (ExecutionResult, error) {
	result := ExecutionResult{Step: s.Name, Status: -1}

	commandLine, err := context.Render(s.CommandLine, fmt.Sprintf("%s.command", s.Name))
	if err != nil {
		return result, errors.Annotatef(err, "step %s failed rendering its command", s.Name)
	}

	words, err := shellwords.Parse(commandLine)
	if err != nil {
		return result, errors.Annotatef(err, "step %s failed splitting command %q", s.Name, commandLine)
	}
	if len(words) == 0 {
		return result, errors.Errorf("step %s has an empty command", s.Name)
	}

	dir, err := context.Render(s.Dir, fmt.Sprintf("%s.dir", s.Name))
	if err != nil {
		return result, errors.Annotatef(err, "step %s failed rendering its working directory", s.Name)
	}

	timeout := s.Timeout
	if timeout == 0 {
		timeout = context.Timeout()
	}

	res, err := RunCommand(Command{
		Program: words[0],
		Args:    append(words[1:], s.Args...),
		Dir:     dir,
		Env:     s.Env,
		Timeout: timeout,
		Silent:  s.Silent,
	})
	res.Step = s.Name

	if err != nil && s.Check {
		err = &ValidationError{Step: s.Name, err: err}
	}

	return res, err
}
