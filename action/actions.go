package action

// actions.go defines the five matrix actions as ordered steps over the
// command builders and naming resolver.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/embedmatrix/exmatrix/archive"
	"github.com/embedmatrix/exmatrix/cli/tools"
	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/embedmatrix/exmatrix/naming"
	"github.com/rs/zerolog"
)

// Action names.
const (
	Clean   = "clean"
	Build   = "build"
	Extract = "extract"
	Run     = "run"
	Events  = "events"
)

// Names lists the actions in pipeline order.
func Names() []string {
	return []string{Clean, Build, Extract, Run, Events}
}

// Options are the file system locations and tuning values used by actions.
// Relative paths are resolved against WorkDir.
type Options struct {
	WorkDir  string
	Solution string
	// DeviceDir holds one directory per device architecture with the memory
	// layout header and linker script templates.
	DeviceDir string
	// SettingsTemplate is the toolchain specific settings file. "{compiler}"
	// is replaced with the lower case compiler code. Empty disables the copy.
	SettingsTemplate string
	// SettingsFile is the fixed name the build tool reads the settings from.
	SettingsFile  string
	ArchiveDir    string
	SimLimit      int
	EventLog      string
	NativeExtract bool
}

// Actions creates sequences for configurations.
type Actions struct {
	logger  zerolog.Logger
	names   *naming.Resolver
	tools   tools.Toolset
	models  tools.Models
	options Options
}

// New creates an action factory.
func New(logger zerolog.Logger, names *naming.Resolver, ts tools.Toolset, models tools.Models, opts Options) *Actions {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	if opts.ArchiveDir == "" {
		opts.ArchiveDir = "."
	}
	return &Actions{
		logger:  logger,
		names:   names,
		tools:   ts.WithDefaults(),
		models:  models,
		options: opts,
	}
}

// Sequence returns the sequence for the named action.
func (a *Actions) Sequence(name string, c matrix.Configuration) (*Sequence, error) {
	switch name {
	case Clean:
		return a.Clean(c), nil
	case Build:
		return a.Build(c), nil
	case Extract:
		return a.Extract(c), nil
	case Run:
		return a.Run(c), nil
	case Events:
		return a.Events(c), nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownAction)
	}
}

func (a *Actions) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(a.options.WorkDir, rel)
}

func command(args []string) func() (Operation, error) {
	return func() (Operation, error) {
		return Operation{Args: args}, nil
	}
}

// Clean removes the build tool artifacts of the configuration.
func (a *Actions) Clean(c matrix.Configuration) *Sequence {
	return newSequence(Clean,
		step{name: "cbuild-clean", prepare: command(a.tools.BuildCleanArgs(a.names.ProjectFile(c)))},
	)
}

// Build installs the toolchain settings, generates the project, preprocesses
// the linker script and builds. The build and the archive of its output only
// happen when every earlier step succeeded.
func (a *Actions) Build(c matrix.Configuration) *Sequence {
	s := newSequence(Build)
	s.steps = []step{
		{name: "settings", prepare: func() (Operation, error) { return a.settingsOp(s, c), nil }},
		{name: "csolution", prepare: command(a.tools.BuildConvertArgs(a.options.Solution, a.names.ProjectName(c)))},
		{name: "outdir", prepare: func() (Operation, error) {
			dir := a.path(a.names.OutputDir(c))
			return Operation{Run: func() error { return os.MkdirAll(dir, 0755) }}, nil
		}},
		{name: "preprocess", prepare: func() (Operation, error) { return a.preprocessOp(c), nil }},
		{name: "cbuild", gated: true, prepare: func() (Operation, error) {
			a.logger.Info().Str("config", c.String()).Msg("Compiling project")
			return Operation{Args: a.tools.BuildArgs(a.names.ProjectFile(c))}, nil
		}},
		{name: "archive", gated: true, prepare: func() (Operation, error) { return a.archiveOp(s, c), nil }},
	}
	return s
}

func (a *Actions) settingsOp(s *Sequence, c matrix.Configuration) Operation {
	if a.options.SettingsTemplate == "" || a.options.SettingsFile == "" {
		return Operation{}
	}
	template := strings.ReplaceAll(a.options.SettingsTemplate, "{compiler}", strings.ToLower(c.Compiler.Code()))
	dest := a.options.SettingsFile
	return Operation{Run: func() error {
		lease, err := AcquireSettings(a.options.WorkDir, template, dest)
		if err != nil {
			return err
		}
		s.release = lease.Release
		a.logger.Debug().Str("template", template).Str("dest", dest).Msg("Installed build settings")
		return nil
	}}
}

func (a *Actions) preprocessOp(c matrix.Configuration) Operation {
	linker := a.names.LinkerFile(c)
	if linker == "" {
		a.logger.Warn().
			Str("compiler", c.Compiler.Code()).
			Msg("No linker script for compiler, skipping preprocessing")
		return Operation{}
	}
	deviceDir := filepath.ToSlash(filepath.Join(a.options.DeviceDir, c.Device.Arch()))
	return Operation{Args: a.tools.BuildPreprocessArgs(tools.PreprocessOptions{
		Config: c,
		Header: deviceDir + "/memory_layout.h",
		In:     deviceDir + "/" + linker + ".src",
		Out:    a.names.OutputDir(c) + "/" + linker,
	})}
}

func (a *Actions) archiveOp(s *Sequence, c matrix.Configuration) Operation {
	// name is taken now, after the build finished
	name := a.names.ArchiveName(c)
	dst := a.path(filepath.Join(a.options.ArchiveDir, name))
	return Operation{Run: func() error {
		a.logger.Info().Str("archive", name).Msg("Archiving build output")
		n, err := archive.Pack(dst, a.options.WorkDir, a.names.ProjectDir(c))
		if err != nil {
			return err
		}
		s.archives = append(s.archives, dst)
		a.logger.Debug().Int("files", n).Str("archive", dst).Msg("Archive written")
		return nil
	}}
}

// Extract unpacks the most recent archive of the configuration. It fails
// with archive.ErrNoArchive when there is none.
func (a *Actions) Extract(c matrix.Configuration) *Sequence {
	return newSequence(Extract,
		step{name: "unzip", prepare: func() (Operation, error) {
			latest, err := archive.Latest(a.path(a.options.ArchiveDir), a.names.ArchivePattern(c))
			if err != nil {
				return Operation{}, err
			}
			a.logger.Info().Str("archive", filepath.Base(latest)).Msg("Extracting build archive")
			if a.options.NativeExtract {
				return Operation{Run: func() error {
					_, err := archive.Extract(latest, a.options.WorkDir)
					return err
				}}, nil
			}
			rel := filepath.ToSlash(filepath.Join(a.options.ArchiveDir, filepath.Base(latest)))
			return Operation{Args: a.tools.BuildUnzipArgs(rel)}, nil
		}},
	)
}

// Run executes the built image on the device's simulator.
func (a *Actions) Run(c matrix.Configuration) *Sequence {
	return newSequence(Run,
		step{name: "model", prepare: func() (Operation, error) {
			args, err := a.models.BuildModelArgs(tools.ModelOptions{
				Config:      c,
				SimLimit:    a.options.SimLimit,
				ModelConfig: a.names.ModelConfigFile(c),
				Image:       a.names.ImageFile(c),
			})
			if err != nil {
				return Operation{}, err
			}
			a.logger.Info().Str("config", c.String()).Msg("Running example on Arm model")
			return Operation{Args: args}, nil
		}},
	)
}

// Events dumps the event recorder log.
func (a *Actions) Events(c matrix.Configuration) *Sequence {
	return newSequence(Events,
		step{name: "eventlist", prepare: command(a.tools.BuildEventListArgs(a.options.EventLog))},
	)
}
