package model

import "time"

// History represents a single exmatrix invocation over the configuration matrix.
type History struct {
	// Unique ID for this invocation (16 random bytes, hex encoded)
	ID string `json:"id"`
	// Timestamp when the invocation started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory the actions ran in (relative to repo root)
	WorkDir string `json:"workdir"`
	// Example the matrix was run for
	Example string `json:"example"`
	// Actions in the order they were requested
	Actions []string `json:"actions"`
	// 0 when every action succeeded for every configuration
	ExitCode int `json:"exit_code"`
	// Duration of the whole invocation
	Duration time.Duration `json:"duration"`
	// Commands were printed, not executed
	DryRun bool `json:"dry_run,omitempty"`
	// Git information
	Git *Git `json:"git,omitempty"`
	// Host the tools ran on
	Target *Target `json:"target,omitempty"`
	// One entry per configuration and action
	Results []ConfigResult `json:"results,omitempty"`
	// Artifacts generated during this run
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Git contains git repository information
type Git struct {
	// Git commit hash at time of execution
	Commit string `json:"commit,omitempty"`
	// Git branch at time of execution
	Branch string `json:"branch,omitempty"`
	// Repository name
	Repo string `json:"repo,omitempty"`
}

// Target contains information about the execution environment
type Target struct {
	OS   string `json:"os,omitempty"`
	Arch string `json:"arch,omitempty"`
}

// ConfigResult is the outcome of one action for one configuration.
type ConfigResult struct {
	// Configuration suffix, e.g. "GCC-Debug-CM55"
	Config   string        `json:"config"`
	Action   string        `json:"action"`
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	Steps    []Step        `json:"steps,omitempty"`
}

// Step is a single tool invocation or in-process step.
type Step struct {
	Name     string        `json:"name"`
	Command  string        `json:"command,omitempty"`
	Success  bool          `json:"success"`
	Skipped  bool          `json:"skipped,omitempty"`
	ExitCode int           `json:"exit_code"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	ArtifactTypeArchive ArtifactType = iota
	ArtifactTypeJUnit
	ArtifactTypeEventLog
)

// String returns the short name shown by list and view.
func (t ArtifactType) String() string {
	switch t {
	case ArtifactTypeArchive:
		return "archive"
	case ArtifactTypeJUnit:
		return "junit"
	case ArtifactTypeEventLog:
		return "events"
	}
	return "unknown"
}

// Artifact represents a file produced during execution
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	// Lower case base32 SHA-256 of the content
	Hash string `json:"hash,omitempty"`
	// Path of the file; archives stay in the work directory
	File string `json:"file"`
	// Configuration the artifact belongs to, if any
	Config string `json:"config,omitempty"`
}
