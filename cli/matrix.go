package cli

// This file contains the matrix action commands and the matrix listing.

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"
	"time"

	"github.com/embedmatrix/exmatrix/action"
	"github.com/embedmatrix/exmatrix/config"
	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/embedmatrix/exmatrix/model"
	"github.com/embedmatrix/exmatrix/report"
	"github.com/embedmatrix/exmatrix/runner"
	"github.com/urfave/cli/v2"
)

func (a *App) loadConfig(ctx *cli.Context) (config.Config, string, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return config.Config{}, "", err
	}
	workDir, err := filepath.Abs(ctx.String("workdir"))
	if err != nil {
		return config.Config{}, "", fmt.Errorf("failed to resolve work directory: %w", err)
	}
	return cfg, workDir, nil
}

func selectedConfigs(ctx *cli.Context) ([]matrix.Configuration, error) {
	filter, err := matrix.ParseFilter(
		ctx.StringSlice("device"),
		ctx.StringSlice("compiler"),
		ctx.StringSlice("optimize"),
	)
	if err != nil {
		return nil, err
	}
	configs := matrix.Expand(filter)
	if len(configs) == 0 {
		return nil, fmt.Errorf("filters select no configurations")
	}
	return configs, nil
}

func (a *App) printMatrix(ctx *cli.Context) error {
	cfg, _, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	configs, err := selectedConfigs(ctx)
	if err != nil {
		return err
	}

	names := cfg.Names()
	fmt.Printf("\n=== Matrix (%d configurations) ===\n\n", len(configs))
	for _, c := range configs {
		fmt.Printf("%-20s %s\n", c.String(), names.ProjectName(c))
	}
	return nil
}

func (a *App) runActions(ctx *cli.Context, names []string) error {
	startTime := time.Now()

	for _, name := range names {
		if !slices.Contains(action.Names(), name) {
			return fmt.Errorf("%w: %s", action.ErrUnknownAction, name)
		}
	}

	cfg, workDir, err := a.loadConfig(ctx)
	if err != nil {
		return err
	}
	configs, err := selectedConfigs(ctx)
	if err != nil {
		return err
	}

	// Generate random 16-byte ID
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return fmt.Errorf("failed to generate run ID: %w", err)
	}

	hist := &model.History{
		ID:        hex.EncodeToString(idBytes),
		Timestamp: startTime,
		Args:      os.Args,
		WorkDir:   workDir,
		Example:   cfg.Example,
		Actions:   names,
		DryRun:    ctx.Bool("dry-run"),
		Target:    &model.Target{OS: runtime.GOOS, Arch: runtime.GOARCH},
	}

	logger := a.logger.With().Str("run", hist.ID[:8]).Logger()
	logger.Info().
		Strs("actions", names).
		Int("configurations", len(configs)).
		Str("workdir", workDir).
		Msg("Running matrix")

	acts := action.New(logger, cfg.Names(), cfg.Tools, cfg.Models, cfg.ActionOptions(workDir))
	r := runner.New(logger, acts, runner.NewExecExecutor(), workDir)
	if hist.DryRun {
		r.DryRun = true
		r.Out = os.Stdout
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	results := r.RunMatrix(runCtx, names, configs)
	sum := report.Console(os.Stdout, results)
	if runCtx.Err() != nil {
		logger.Warn().Int("completed", len(results)).Msg("Interrupted")
	}

	if path := ctx.String("junit"); path != "" {
		if err := report.WriteJUnitFile(path, cfg.Example+".", results); err != nil {
			logger.Error().Err(err).Str("path", path).Msg("Failed to write JUnit report")
		} else {
			logger.Info().Str("path", path).Msg("Wrote JUnit report")
		}
	}

	hist.ExitCode = 0
	if sum.Failed > 0 || runCtx.Err() != nil {
		hist.ExitCode = 1
	}
	hist.Duration = time.Since(startTime)

	if !ctx.Bool("no-history") {
		// Record the history (non-fatal if it fails)
		if err := a.recordHistory(cfg, hist, results, ctx.String("junit")); err != nil {
			logger.Warn().Err(err).Msg("Failed to record history")
		}
	}

	if hist.ExitCode != 0 {
		return cli.Exit(fmt.Sprintf("%d of %d matrix entries failed", sum.Failed, sum.Total), hist.ExitCode)
	}
	return nil
}
