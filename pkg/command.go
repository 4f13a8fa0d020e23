package patchwork

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mumoshu/patchwork/pkg/util/envutil"
)

// Command is one external command to run synchronously: a program, its
// ordered argument list, and an explicit working directory. There is no
// global chdir; every command carries its own directory.
type Command struct {
	Program string
	Args    []string
	Dir     string
	Env     map[string]string
	Timeout time.Duration
	Silent  bool
}

// RunCommand launches the command, streams its stdout and stderr line by line
// through the logger, waits for termination, and captures the exit status.
// Failures are always reported, never swallowed: a missing program, a missing
// working directory, and a nonzero exit each map to a distinct
// ExecutionError reason.
func RunCommand(c Command) (ExecutionResult, error) {
	result := ExecutionResult{Status: -1}

	l := log.WithFields(log.Fields{"command": c.Program})

	if c.Dir != "" {
		stat, err := os.Stat(c.Dir)
		if err != nil || !stat.IsDir() {
			if err == nil {
				err = errors.Errorf("%s is not a directory", c.Dir)
			}
			return result, &ExecutionError{Reason: InvalidWorkingDirectory, Program: c.Program, Dir: c.Dir, Status: -1, err: err}
		}
	}

	if _, err := exec.LookPath(c.Program); err != nil {
		return result, &ExecutionError{Reason: NotFound, Program: c.Program, Dir: c.Dir, Status: -1, err: err}
	}

	var cmd *exec.Cmd
	if c.Timeout > 0 {
		timeoutCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
		defer cancel()
		cmd = exec.CommandContext(timeoutCtx, c.Program, c.Args...)
	} else {
		cmd = exec.Command(c.Program, c.Args...)
	}
	cmd.Dir = c.Dir

	if len(c.Env) > 0 {
		mergedEnv := envutil.ParseEnviron()
		for name, value := range c.Env {
			mergedEnv[name] = value
		}
		cmdEnv := []string{}
		for name, value := range mergedEnv {
			cmdEnv = append(cmdEnv, fmt.Sprintf("%s=%s", name, value))
		}
		cmd.Env = cmdEnv
	}

	l.Debugf("shelling out: %v", append([]string{c.Program}, c.Args...))

	cmdReader, err := cmd.StdoutPipe()
	if err != nil {
		return result, errors.Annotatef(err, "command %s failed creating stdout pipe", c.Program)
	}

	errReader, err := cmd.StderrPipe()
	if err != nil {
		return result, errors.Annotatef(err, "command %s failed creating stderr pipe", c.Program)
	}

	if err := cmd.Start(); err != nil {
		return result, &ExecutionError{Reason: NotFound, Program: c.Program, Dir: c.Dir, Status: -1, err: err}
	}

	channels := struct {
		Stdout chan string
		Stderr chan string
	}{
		Stdout: make(chan string),
		Stderr: make(chan string),
	}

	scanner := bufio.NewScanner(cmdReader)
	go func() {
		defer close(channels.Stdout)
		for scanner.Scan() {
			channels.Stdout <- scanner.Text()
		}
	}()

	errScanner := bufio.NewScanner(errReader)
	go func() {
		defer close(channels.Stderr)
		for errScanner.Scan() {
			channels.Stderr <- errScanner.Text()
		}
	}()

	var output string

	stdoutEnds := false
	stderrEnds := false

	stdoutlog := l.WithFields(log.Fields{"stream": "stdout"})
	stderrlog := l.WithFields(log.Fields{"stream": "stderr"})

	// Coordinating stdout/stderr in this single place to not screw up message ordering
	for {
		select {
		case text, ok := <-channels.Stdout:
			if ok {
				if output != "" {
					output += "\n"
				}
				output += text
				if c.Silent {
					stdoutlog.Debug(text)
				} else {
					stdoutlog.Info(text)
				}
			} else {
				stdoutEnds = true
			}
		case text, ok := <-channels.Stderr:
			if ok {
				stderrlog.Errorf("%s", text)
			} else {
				stderrEnds = true
			}
		}
		if stdoutEnds && stderrEnds {
			break
		}
	}

	result.Output = strings.Trim(output, "\n ")

	var waitStatus syscall.WaitStatus
	if err := cmd.Wait(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			waitStatus = exitError.Sys().(syscall.WaitStatus)
			result.Status = waitStatus.ExitStatus()
			return result, &ExecutionError{Reason: NonZeroExit, Program: c.Program, Dir: c.Dir, Status: result.Status, err: err}
		}
		return result, errors.Annotatef(err, "command %s failed while waiting for completion", c.Program)
	}

	waitStatus = cmd.ProcessState.Sys().(syscall.WaitStatus)
	result.Status = waitStatus.ExitStatus()
	result.Success = true

	l.Debugf("command finished with status: %d", result.Status)

	return result, nil
}
