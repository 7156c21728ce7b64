// Package naming derives the per-configuration project, directory, archive,
// model-configuration and linker-script names.
//
// All names are recomputed on every call. Only the timestamped forms read the
// clock, so two calls separated by a build may return different suffixes.
package naming

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/embedmatrix/exmatrix/matrix"
)

// TimestampFormat is the archive timestamp layout (YYYYMMDDHHMMSS). It sorts
// lexicographically in chronological order.
const TimestampFormat = "20060102150405"

// DefaultExample is the example built when no other is configured.
const DefaultExample = "EventStatistic"

// Resolver derives names for one example.
type Resolver struct {
	// Example is the example (solution/project) base name.
	Example string
	// QualifyCompiler adds the compiler code to project names, for build trees
	// that hold several toolchains side by side.
	QualifyCompiler bool
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New returns a Resolver for example with the current wall clock.
func New(example string, qualifyCompiler bool) *Resolver {
	return &Resolver{Example: example, QualifyCompiler: qualifyCompiler, Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// ConfigSuffix returns "{compiler}-{optimize}-{device}", followed by
// "-{YYYYMMDDHHMMSS}" when timestamp is set.
func (r *Resolver) ConfigSuffix(c matrix.Configuration, timestamp bool) string {
	suffix := fmt.Sprintf("%s-%s-%s", c.Compiler.Code(), c.Optimize.Label(), c.Device.Code())
	if timestamp {
		suffix += "-" + r.now().Format(TimestampFormat)
	}
	return suffix
}

// ProjectName returns the build context name, e.g. "EventStatistic.Debug+CM55"
// or "EventStatistic.GCC_Debug+CM55" when compiler-qualified.
func (r *Resolver) ProjectName(c matrix.Configuration) string {
	if r.QualifyCompiler {
		return fmt.Sprintf("%s.%s_%s+%s", r.Example, c.Compiler.Code(), c.Optimize.Label(), c.Device.Code())
	}
	return fmt.Sprintf("%s.%s+%s", r.Example, c.Optimize.Label(), c.Device.Code())
}

// ProjectDir is the directory holding the generated project and its outputs.
func (r *Resolver) ProjectDir(c matrix.Configuration) string {
	return r.ProjectName(c)
}

// OutputDir is the directory the build tool writes the image into.
func (r *Resolver) OutputDir(c matrix.Configuration) string {
	name := r.ProjectName(c)
	return path.Join(r.ProjectDir(c), name+"_outdir")
}

// ProjectFile is the generated project description passed to the build tool.
func (r *Resolver) ProjectFile(c matrix.Configuration) string {
	return path.Join(r.ProjectDir(c), r.ProjectName(c)+".cprj")
}

// ImageFile is the built executable image loaded by the simulator.
func (r *Resolver) ImageFile(c matrix.Configuration) string {
	return path.Join(r.OutputDir(c), r.ProjectName(c)+"."+c.Compiler.ImageExt())
}

// ArchiveName returns a fresh timestamped archive file name.
func (r *Resolver) ArchiveName(c matrix.Configuration) string {
	return fmt.Sprintf("%s-%s.zip", r.Example, r.ConfigSuffix(c, true))
}

// ArchivePattern returns the glob matching every archive of the configuration.
func (r *Resolver) ArchivePattern(c matrix.Configuration) string {
	return fmt.Sprintf("%s-%s-*.zip", r.Example, r.ConfigSuffix(c, false))
}

// ModelConfigFile returns the simulator configuration file for the device.
func (r *Resolver) ModelConfigFile(c matrix.Configuration) string {
	return fmt.Sprintf("model_config_%s.txt", strings.ToLower(c.Device.Code()))
}

// LinkerFile returns the linker script name used by the compiler, or "" when
// the compiler has no linker script branch. Callers must check for "".
func (r *Resolver) LinkerFile(c matrix.Configuration) string {
	switch c.Compiler {
	case matrix.CompilerAC6:
		return c.Device.Arch() + "_ac6.sct"
	case matrix.CompilerGCC:
		return "gcc_linker_script.ld"
	case matrix.CompilerIAR:
		return "iar_linker_script.icf"
	default:
		return ""
	}
}
