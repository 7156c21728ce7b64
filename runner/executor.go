package runner

// executor.go contains process execution for external tool invocations.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs one external process invocation.
type Executor interface {
	// Execute runs args[0] with args[1:] in dir and returns its exit code.
	Execute(ctx context.Context, dir string, args []string) (Output, error)
}

// Output is the captured result of a process.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExecExecutor executes processes on the local host, streaming their output
// to Stdout/Stderr while capturing it.
type ExecExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecExecutor returns an executor that mirrors output to the terminal.
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e *ExecExecutor) Execute(ctx context.Context, dir string, args []string) (Output, error) {
	if len(args) == 0 {
		return Output{}, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	if e.Stdout != nil {
		cmd.Stdout = io.MultiWriter(e.Stdout, &stdoutBuf)
	}
	if e.Stderr != nil {
		cmd.Stderr = io.MultiWriter(e.Stderr, &stderrBuf)
	}

	err := cmd.Run()
	out := Output{Stdout: stdoutBuf.String(), Stderr: stderrBuf.String()}
	if err == nil {
		return out, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, fmt.Errorf("%s exited with code %d", args[0], out.ExitCode)
	}

	out.ExitCode = 1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		out.ExitCode = 127
	}
	return out, fmt.Errorf("failed to execute %s: %w", args[0], err)
}
