package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ShellExecutor runs a task node's command through mvdan.cc/sh's
// interpreter, giving proper POSIX shell quoting/expansion/pipe semantics
// instead of a bare os/exec split (spec.md §4.2 task/shell).
type ShellExecutor struct {
	Dir string
}

// NewShellExecutor returns a ShellExecutor that runs commands in dir (the
// node's resolved compute data folder, or "" for the process's own cwd).
func NewShellExecutor(dir string) *ShellExecutor {
	return &ShellExecutor{Dir: dir}
}

// Execute parses and runs command, exposing env (typically the
// DAGRUNNER_PRM_ parameter channel plus the inherited process environment)
// to it. A non-zero exit is reported as an error, per spec.md §4.2.
func (s *ShellExecutor) Execute(ctx context.Context, command string, env []string) (Result, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return Result{}, fmt.Errorf("command: parse shell command: %w", err)
	}

	var stdout, stderr bytes.Buffer
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &stdout, &stderr),
	}
	if s.Dir != "" {
		opts = append(opts, interp.Dir(s.Dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return Result{}, fmt.Errorf("command: build shell runner: %w", err)
	}

	if err := runner.Run(ctx, file); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return Result{Message: strings.TrimSpace(stderr.String())},
				fmt.Errorf("command: exited with status %d: %s", int(status), strings.TrimSpace(stderr.String()))
		}
		return Result{Message: strings.TrimSpace(stderr.String())}, fmt.Errorf("command: run shell command: %w", err)
	}
	return Result{Message: strings.TrimSpace(stdout.String())}, nil
}
