// Package report renders matrix results for humans and CI systems.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/embedmatrix/exmatrix/runner"
	"github.com/gookit/color"
)

// Summary counts results by outcome.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Summarize counts the results.
func Summarize(results []runner.Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Success() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// Console writes one line per configuration and action followed by a total.
func Console(w io.Writer, results []runner.Result) Summary {
	fmt.Fprintf(w, "\n=== Matrix Results (%d) ===\n\n", len(results))
	for _, r := range results {
		status := color.Green.Sprint("✓")
		if !r.Success() {
			status = color.Red.Sprint("✗")
		}
		fmt.Fprintf(w, "%s  %-8s %-24s [%s]\n", status, r.Action, r.Config.String(), r.Duration.Round(time.Millisecond))
		if r.Err != nil {
			fmt.Fprintf(w, "   %s\n", color.Red.Sprint(r.Err.Error()))
		}
		for _, s := range r.Steps {
			switch {
			case s.Skipped:
				fmt.Fprintf(w, "   %s: %s\n", s.Name, color.Yellow.Sprint("skipped"))
			case !s.Success:
				fmt.Fprintf(w, "   %s: %s (exit=%d)\n", s.Name, color.Red.Sprint("failed"), s.ExitCode)
			}
		}
		for _, a := range r.Archives {
			fmt.Fprintf(w, "   archive: %s\n", a)
		}
	}

	sum := Summarize(results)
	line := fmt.Sprintf("\n%d passed, %d failed\n", sum.Passed, sum.Failed)
	if sum.Failed > 0 {
		fmt.Fprint(w, color.Red.Sprint(line))
	} else {
		fmt.Fprint(w, color.Green.Sprint(line))
	}
	return sum
}
