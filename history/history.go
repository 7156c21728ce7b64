package history

// This file contains shared history utilities for recording, loading and
// selecting matrix run history.

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/embedmatrix/exmatrix/model"
	"github.com/rs/zerolog"
)

// FileName is the metadata file written into every run directory.
const FileName = "history.json"

// ErrNoEntries is returned when the history holds no runs.
var ErrNoEntries = errors.New("no history entries found")

type Entry struct {
	History  model.History
	FullPath string
}

// RepoRoot returns the top level of the git repository containing dir.
func RepoRoot(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Root resolves the history directory. Relative directories are anchored at
// the git repository root of workDir, or at workDir outside a repository.
func Root(historyDir, workDir string) string {
	if filepath.IsAbs(historyDir) {
		return historyDir
	}
	base := workDir
	if root, err := RepoRoot(workDir); err == nil {
		base = root
	}
	return filepath.Join(base, historyDir)
}

// RunDir returns <root>/history/<YYYYMMDD-HHMMSS>-<commit8>-<id8>.
func RunDir(root string, h *model.History) string {
	commit := "nogit"
	if h.Git != nil && h.Git.Commit != "" {
		commit = short(h.Git.Commit)
	}
	name := fmt.Sprintf("%s-%s-%s", h.Timestamp.Format("20060102-150405"), commit, short(h.ID))
	return filepath.Join(root, "history", name)
}

// Write stores h as history.json in runDir.
func Write(runDir string, h *model.History) error {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, FileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// LoadEntries loads all history entries below root. A missing root yields no
// entries.
func LoadEntries(logger zerolog.Logger, root string) ([]Entry, error) {
	var entries []Entry

	if _, err := os.Stat(root); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			historyPath := filepath.Join(path, FileName)
			if _, err := os.Stat(historyPath); err == nil {
				history, err := parseHistoryJSON(historyPath)
				if err != nil {
					logger.Warn().Err(err).Str("path", historyPath).Msg("Failed to parse history.json")
					return nil
				}

				entries = append(entries, Entry{
					History:  history,
					FullPath: path,
				})
			}
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk history directory: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].History.Timestamp.After(entries[j].History.Timestamp)
	})
	return entries, nil
}

// Find selects an entry from newest-first entries. "0" is the newest run,
// "-1" the one before it; anything else is matched as an ID prefix.
func Find(entries []Entry, arg string) (*Entry, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	if parsed, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if parsed > 0 {
			return nil, fmt.Errorf("invalid index: %s (use 0 for last, -1 for second-to-last, -2 for third-to-last, etc.)", arg)
		}
		index := -parsed
		// -MinInt64 overflows back to a negative value
		if index < 0 || index >= int64(len(entries)) {
			return nil, fmt.Errorf("index %s out of range (only %d history entries)", arg, len(entries))
		}
		return &entries[index], nil
	}

	prefix := strings.ToLower(arg)
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].History.ID), prefix) {
			return &entries[i], nil
		}
	}
	return nil, fmt.Errorf("no history entry found matching ID: %s", arg)
}

// parseHistoryJSON parses a history.json file.
func parseHistoryJSON(historyPath string) (model.History, error) {
	data, err := os.ReadFile(historyPath)
	if err != nil {
		return model.History{}, err
	}

	var history model.History
	if err := json.Unmarshal(data, &history); err != nil {
		return model.History{}, err
	}

	return history, nil
}

func short(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}
