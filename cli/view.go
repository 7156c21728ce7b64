package cli

// This file contains the view command for displaying a matrix run from history.

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/embedmatrix/exmatrix/config"
	"github.com/embedmatrix/exmatrix/history"
	"github.com/embedmatrix/exmatrix/model"
	"github.com/gookit/color"
	"github.com/urfave/cli/v2"
)

func removeFirstDashDash(in []string) []string {
	if len(in) > 0 && in[0] == "--" {
		return in[1:]
	}
	return in
}

// parseViewArgs splits the view arguments into the run selector and
// configuration filters, e.g. "-1 GCC CM55" or "-- Debug-CM3".
func parseViewArgs(in []string) (idArg string, configFilters []string) {
	if len(in) == 0 {
		return "0", nil
	}

	// If first arg is "--", use default "0" and rest are filters
	if in[0] == "--" {
		return "0", in[1:]
	}

	// First arg is the ID/index, rest are filters (with optional "--" removed)
	return in[0], removeFirstDashDash(in[1:])
}

// matchesFilters reports whether config contains every filter, ignoring case.
func matchesFilters(config string, filters []string) bool {
	config = strings.ToLower(config)
	for _, f := range filters {
		if !strings.Contains(config, strings.ToLower(f)) {
			return false
		}
	}
	return true
}

func (a *App) historyRoot(ctx *cli.Context) (string, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return "", err
	}
	workDir, err := filepath.Abs(ctx.String("workdir"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve work directory: %w", err)
	}
	return history.Root(cfg.HistoryDir, workDir), nil
}

func (a *App) view(ctx *cli.Context) error {
	arg, filters := parseViewArgs(ctx.Args().Slice())

	root, err := a.historyRoot(ctx)
	if err != nil {
		return err
	}

	// Load all history entries (newest first)
	historyEntries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	entry, err := history.Find(historyEntries, arg)
	if err != nil {
		return err
	}

	displayHistoryEntry(os.Stdout, entry, filters)
	return nil
}

func displayHistoryEntry(w io.Writer, entry *history.Entry, filters []string) {
	h := entry.History

	fmt.Fprintf(w, "=== Matrix Run: %s ===\n", shortID(h.ID))
	fmt.Fprintf(w, "Time: %s\n", h.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Duration: %s\n", h.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "Exit Code: %d\n", h.ExitCode)
	fmt.Fprintf(w, "Example: %s\n", h.Example)
	fmt.Fprintf(w, "Actions: %s\n", strings.Join(h.Actions, ", "))
	if h.DryRun {
		fmt.Fprintln(w, "Dry Run: yes")
	}
	if h.WorkDir != "" {
		fmt.Fprintf(w, "Working Dir: %s\n", h.WorkDir)
	}
	if h.Git != nil && h.Git.Commit != "" {
		fmt.Fprintf(w, "Git Commit: %s", shortID(h.Git.Commit))
		if h.Git.Branch != "" {
			fmt.Fprintf(w, " (%s)", h.Git.Branch)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)

	shown := 0
	for _, r := range h.Results {
		if !matchesFilters(r.Config, filters) {
			continue
		}
		shown++

		status := color.Green.Sprint("✓")
		if !r.Success {
			status = color.Red.Sprint("✗")
		}
		fmt.Fprintf(w, "%s  %-8s %-20s [%s]\n", status, r.Action, r.Config, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(w, "   error: %s\n", r.Error)
		}
		for _, s := range r.Steps {
			state := "ok"
			switch {
			case s.Skipped:
				state = color.Yellow.Sprint("skipped")
			case !s.Success:
				state = color.Red.Sprintf("exit=%d", s.ExitCode)
			}
			fmt.Fprintf(w, "   %-12s %s", s.Name, state)
			if s.Command != "" {
				fmt.Fprintf(w, "  $ %s", s.Command)
			}
			fmt.Fprintln(w)
			if s.Error != "" && !s.Success {
				fmt.Fprintf(w, "   %-12s %s\n", "", s.Error)
			}
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "No results match the given configuration filters")
	}

	if len(h.Artifacts) > 0 {
		fmt.Fprintln(w, "\nArtifacts:")
		for _, artifact := range h.Artifacts {
			if artifact.Config != "" && !matchesFilters(artifact.Config, filters) {
				continue
			}
			path := artifact.File
			if artifact.Type != model.ArtifactTypeArchive {
				path = filepath.Join(entry.FullPath, artifact.File)
			}
			fmt.Fprintf(w, "   %s: %s (%.1f KB)\n", artifact.Type, path, float64(artifact.Size)/1024)
		}
	}
	fmt.Fprintf(w, "\nHistory directory: %s\n", entry.FullPath)
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
