package cli

// This file contains run recording functionality for saving matrix run
// metadata and artifacts to the history directory.

import (
	"path/filepath"

	"github.com/embedmatrix/exmatrix/cli/tools"
	"github.com/embedmatrix/exmatrix/config"
	"github.com/embedmatrix/exmatrix/history"
	"github.com/embedmatrix/exmatrix/model"
	"github.com/embedmatrix/exmatrix/runner"
)

func (a *App) recordHistory(cfg config.Config, h *model.History, results []runner.Result, junitPath string) error {
	workDir := h.WorkDir

	// Capture git info (non-fatal if it fails)
	if git, repoRoot, err := a.getGitInfo(workDir); err == nil {
		h.Git = git
		// Store WorkDir relative to repo root
		if rel, err := filepath.Rel(repoRoot, workDir); err == nil {
			h.WorkDir = rel
		}
	} else {
		a.logger.Debug().Err(err).Msg("Recording without git information")
	}

	h.Results = convertResults(results)

	root := history.Root(cfg.HistoryDir, workDir)
	runDir := history.RunDir(root, h)

	// Archive artifacts if they exist
	if err := a.saveArtifacts(runDir, h, results, junitPath, filepath.Join(workDir, cfg.EventLog)); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to save some artifacts")
		// Don't fail the run on artifact errors
	}

	if err := history.Write(runDir, h); err != nil {
		return err
	}

	a.logger.Debug().Str("dir", runDir).Str("id", h.ID).Msg("Recorded matrix run")
	return nil
}

func convertResults(results []runner.Result) []model.ConfigResult {
	out := make([]model.ConfigResult, 0, len(results))
	for _, r := range results {
		cr := model.ConfigResult{
			Config:   r.Config.String(),
			Action:   r.Action,
			Success:  r.Success(),
			Duration: r.Duration,
		}
		if r.Err != nil {
			cr.Error = r.Err.Error()
		}
		for _, s := range r.Steps {
			step := model.Step{
				Name:     s.Name,
				Success:  s.Success,
				Skipped:  s.Skipped,
				ExitCode: s.ExitCode,
				Error:    s.Error,
				Duration: s.Duration,
			}
			if len(s.Args) > 0 {
				step.Command = tools.Quote(s.Args)
			}
			cr.Steps = append(cr.Steps, step)
		}
		out = append(out, cr)
	}
	return out
}
