// Package runner executes action sequences for each configuration of the
// matrix. Configurations and their steps run strictly one after another.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/embedmatrix/exmatrix/action"
	"github.com/embedmatrix/exmatrix/cli/tools"
	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/rs/zerolog"
)

// Result is the outcome of one action for one configuration.
type Result struct {
	Config   matrix.Configuration
	Action   string
	Steps    []action.StepResult
	Archives []string
	Err      error
	Duration time.Duration
}

// Success reports whether the action completed and every step succeeded.
func (r Result) Success() bool {
	if r.Err != nil {
		return false
	}
	for _, s := range r.Steps {
		if !s.Success {
			return false
		}
	}
	return true
}

// Runner drives action sequences against an executor.
type Runner struct {
	logger  zerolog.Logger
	actions *action.Actions
	exec    Executor
	workDir string

	// DryRun prints commands to Out instead of running anything.
	DryRun bool
	Out    io.Writer
}

// New creates a runner executing processes in workDir.
func New(logger zerolog.Logger, actions *action.Actions, exec Executor, workDir string) *Runner {
	if workDir == "" {
		workDir = "."
	}
	return &Runner{logger: logger, actions: actions, exec: exec, workDir: workDir, Out: io.Discard}
}

// RunMatrix runs every named action, in order, for every configuration.
// Failures do not stop other configurations or actions; only context
// cancellation does.
func (r *Runner) RunMatrix(ctx context.Context, names []string, configs []matrix.Configuration) []Result {
	var results []Result
	for _, c := range configs {
		for _, name := range names {
			if ctx.Err() != nil {
				return results
			}
			results = append(results, r.RunAction(ctx, name, c))
		}
	}
	return results
}

// RunAction runs a single action for one configuration.
func (r *Runner) RunAction(ctx context.Context, name string, c matrix.Configuration) Result {
	start := time.Now()
	res := Result{Config: c, Action: name}

	logger := r.logger.With().Str("action", name).Str("config", c.String()).Logger()

	seq, err := r.actions.Sequence(name, c)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	defer seq.Close()

	for {
		op, ok, err := seq.Next()
		if err != nil {
			logger.Error().Err(err).Msg("Action aborted")
			res.Err = err
			break
		}
		if !ok {
			break
		}
		seq.Report(r.execute(ctx, logger, op))
	}

	res.Steps = seq.Results()
	res.Archives = seq.Archives()
	res.Duration = time.Since(start)

	if res.Success() {
		logger.Info().Dur("duration", res.Duration).Msg("Action succeeded")
	} else if res.Err == nil {
		logger.Warn().Dur("duration", res.Duration).Msg("Action failed")
	}
	return res
}

func (r *Runner) execute(ctx context.Context, logger zerolog.Logger, op action.Operation) action.StepResult {
	start := time.Now()
	sr := action.StepResult{Name: op.Name, Args: op.Args}

	switch {
	case op.IsNoop():
		logger.Debug().Str("step", op.Name).Msg("Nothing to do")
		sr.Success = true

	case r.DryRun:
		if len(op.Args) > 0 {
			fmt.Fprintln(r.Out, tools.Quote(op.Args))
		} else {
			fmt.Fprintf(r.Out, "# %s (in-process)\n", op.Name)
		}
		sr.Success = true

	case len(op.Args) > 0:
		logger.Debug().Str("step", op.Name).Str("command", tools.Quote(op.Args)).Msg("Executing")
		out, err := r.exec.Execute(ctx, r.workDir, op.Args)
		sr.ExitCode = out.ExitCode
		if err != nil {
			sr.Error = err.Error()
			logger.Error().Err(err).Str("step", op.Name).Int("exit_code", out.ExitCode).Msg("Step failed")
		} else {
			sr.Success = true
		}

	default:
		logger.Debug().Str("step", op.Name).Msg("Running in-process step")
		if err := op.Run(); err != nil {
			sr.ExitCode = 1
			sr.Error = err.Error()
			logger.Error().Err(err).Str("step", op.Name).Msg("Step failed")
		} else {
			sr.Success = true
		}
	}

	sr.Duration = time.Since(start)
	return sr
}
