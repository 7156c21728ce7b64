package cli

// This file contains Git integration utilities for retrieving
// repository information.

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/embedmatrix/exmatrix/model"
)

func gitOutput(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// getGitInfo returns the repository state of dir and the repository root.
func (a *App) getGitInfo(dir string) (*model.Git, string, error) {
	root, err := gitOutput(dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, "", fmt.Errorf("not in a git repository: %w", err)
	}

	// Get current commit hash
	commit, err := gitOutput(dir, "rev-parse", "HEAD")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get git commit: %w", err)
	}

	// Get current branch
	branch, err := gitOutput(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get git branch: %w", err)
	}

	return &model.Git{
		Commit: commit,
		Branch: branch,
		Repo:   filepath.Base(root),
	}, root, nil
}
