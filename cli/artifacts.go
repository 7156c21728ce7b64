package cli

// This file contains artifact management functionality for registering
// build archives and copying reports into the history directory.

import (
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/embedmatrix/exmatrix/action"
	"github.com/embedmatrix/exmatrix/model"
	"github.com/embedmatrix/exmatrix/runner"
)

// hashFile returns the size and lower case base32 SHA-256 of a file.
func hashFile(path string) (uint64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	hash := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(h.Sum(nil)))
	return uint64(n), hash, nil
}

func (a *App) copyFile(src, dst string) (uint64, error) {
	sourceFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer destFile.Close()

	n, err := io.Copy(destFile, sourceFile)
	if err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (a *App) saveArtifacts(runDir string, h *model.History, results []runner.Result, junitPath, eventLog string) error {
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return fmt.Errorf("failed to create run directory: %w", err)
	}

	var errs []string

	// Register build archives in place; they are large and stay in the work dir
	for _, r := range results {
		for _, path := range r.Archives {
			size, hash, err := hashFile(path)
			if err != nil {
				a.logger.Warn().Err(err).Str("file", path).Msg("Failed to hash archive")
				errs = append(errs, path)
				continue
			}
			h.Artifacts = append(h.Artifacts, model.Artifact{
				Type:   model.ArtifactTypeArchive,
				Size:   size,
				Hash:   hash,
				File:   path,
				Config: r.Config.String(),
			})
			a.logger.Debug().
				Str("hash", hash).
				Str("archive", path).
				Msg("Registered build archive")
		}
	}

	if junitPath != "" {
		if size, err := a.copyFile(junitPath, filepath.Join(runDir, "junit.xml")); err != nil {
			a.logger.Warn().Err(err).Str("file", junitPath).Msg("Failed to copy JUnit report")
			errs = append(errs, junitPath)
		} else {
			h.Artifacts = append(h.Artifacts, model.Artifact{
				Type: model.ArtifactTypeJUnit,
				Size: size,
				File: "junit.xml",
			})
		}
	}

	// The recorder log is overwritten by every run, so only the last one is kept
	if slices.Contains(h.Actions, action.Events) && !h.DryRun {
		if _, err := os.Stat(eventLog); err == nil {
			name := filepath.Base(eventLog)
			if size, err := a.copyFile(eventLog, filepath.Join(runDir, name)); err != nil {
				a.logger.Warn().Err(err).Str("file", eventLog).Msg("Failed to copy event log")
				errs = append(errs, eventLog)
			} else {
				h.Artifacts = append(h.Artifacts, model.Artifact{
					Type: model.ArtifactTypeEventLog,
					Size: size,
					File: name,
				})
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to save artifacts: %s", strings.Join(errs, ", "))
	}
	return nil
}
