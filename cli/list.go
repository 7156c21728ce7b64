package cli

// This file contains the list command for displaying previous matrix runs.

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/embedmatrix/exmatrix/history"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	filterAction := ctx.String("action")
	limit := ctx.Int("limit")

	root, err := a.historyRoot(ctx)
	if err != nil {
		return err
	}

	// Load all history entries (newest first)
	historyEntries, err := history.LoadEntries(a.logger, root)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	// Apply action filter if specified
	var filteredEntries []history.Entry
	for _, entry := range historyEntries {
		if filterAction == "" || slices.Contains(entry.History.Actions, filterAction) {
			filteredEntries = append(filteredEntries, entry)
		}
	}

	if len(filteredEntries) == 0 {
		if filterAction != "" {
			fmt.Printf("No history entries found for action: %s\n", filterAction)
		} else {
			fmt.Println("No history entries found")
			fmt.Printf("Runs are saved to %s/history/<timestamp>-<commit>-<id>/\n", root)
		}
		return nil
	}

	// Apply limit
	displayRuns := filteredEntries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== History (%d total) ===\n\n", len(filteredEntries))

	for _, entry := range displayRuns {
		h := entry.History
		timestamp := h.Timestamp.Format("2006-01-02 15:04:05")

		// Format duration
		duration := h.Duration.Round(time.Millisecond)

		// Determine status indicator
		status := "✓"
		if h.ExitCode != 0 {
			status = "✗"
		}

		failed := 0
		for _, r := range h.Results {
			if !r.Success {
				failed++
			}
		}

		fmt.Printf("%s  %s  [%s]  exit=%d  id=%s\n", status, timestamp, duration, h.ExitCode, shortID(h.ID))
		fmt.Printf("   %s: %s  (%d results, %d failed)\n", h.Example, strings.Join(h.Actions, ","), len(h.Results), failed)
		if h.DryRun {
			fmt.Println("   dry run")
		}
		if h.WorkDir != "" {
			fmt.Printf("   Path: %s\n", h.WorkDir)
		}
		if h.Git != nil && h.Git.Commit != "" {
			fmt.Printf("   Commit: %s", shortID(h.Git.Commit))
			if h.Git.Branch != "" {
				fmt.Printf(" (%s)", h.Git.Branch)
			}
			fmt.Println()
		}
		for _, artifact := range h.Artifacts {
			fmt.Printf("   %s: %s (%.1f KB)\n", artifact.Type, artifact.File, float64(artifact.Size)/1024)
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	fmt.Println("View a run: exmatrix view <ID>")

	return nil
}
