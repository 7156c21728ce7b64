package tools

// preprocess.go builds the compiler specific linker script preprocessing
// command.

import (
	"github.com/embedmatrix/exmatrix/matrix"
)

// PreprocessOptions describes one linker script preprocessing run.
type PreprocessOptions struct {
	Config matrix.Configuration
	Header string // memory layout header injected via include
	In     string // linker script template
	Out    string // preprocessed linker script
}

// BuildPreprocessArgs returns the preprocessor invocation for the configured
// compiler. Compilers without a preprocessing branch yield nil, which callers
// treat as an explicit no-op.
func (t Toolset) BuildPreprocessArgs(opts PreprocessOptions) []string {
	cpu := opts.Config.Device.CPU()

	switch opts.Config.Compiler {
	case matrix.CompilerAC6:
		return []string{
			t.Armclang, "--target=arm-arm-none-eabi", "-mcpu=" + cpu,
			"-E", "-x", "c",
			"-include", opts.Header,
			opts.In, "-o", opts.Out,
		}
	case matrix.CompilerGCC:
		return []string{
			t.GCC, "-mcpu=" + cpu,
			"-include", opts.Header,
			"-E", "-P", "-x", "c",
			opts.In, "-o", opts.Out,
		}
	case matrix.CompilerIAR:
		return []string{
			t.IAR, "--cpu=" + cpu,
			"--preinclude", opts.Header,
			"--preprocess=ns", opts.Out,
			opts.In,
		}
	default:
		return nil
	}
}
