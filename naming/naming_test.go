package naming

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cm55GCCDebug = matrix.Configuration{
	Device:   matrix.DeviceCM55,
	Compiler: matrix.CompilerGCC,
	Optimize: matrix.OptimizeDebug,
}

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		t, err := time.Parse(TimestampFormat, ts)
		if err != nil {
			panic(err)
		}
		return t
	}
}

func TestConfigSuffix(t *testing.T) {
	r := &Resolver{Example: DefaultExample, Now: fixedClock("20240101123045")}

	assert.Equal(t, "GCC-Debug-CM55", r.ConfigSuffix(cm55GCCDebug, false))
	assert.Equal(t, "GCC-Debug-CM55-20240101123045", r.ConfigSuffix(cm55GCCDebug, true))
}

func TestConfigSuffixPrefixProperty(t *testing.T) {
	r := New(DefaultExample, true)
	stamp := regexp.MustCompile(`^-[0-9]{14}$`)

	for _, c := range matrix.Expand(matrix.Filter{}) {
		plain := r.ConfigSuffix(c, false)
		assert.Equal(t, plain, r.ConfigSuffix(c, false), "untimestamped suffix must not depend on time")

		full := r.ConfigSuffix(c, true)
		require.True(t, strings.HasPrefix(full, plain), "%s is not a prefix of %s", plain, full)
		assert.Regexp(t, stamp, strings.TrimPrefix(full, plain))
	}
}

func TestProjectNames(t *testing.T) {
	plain := New(DefaultExample, false)
	assert.Equal(t, "EventStatistic.Debug+CM55", plain.ProjectName(cm55GCCDebug))
	assert.Equal(t, "EventStatistic.Debug+CM55/EventStatistic.Debug+CM55_outdir", plain.OutputDir(cm55GCCDebug))

	qualified := New(DefaultExample, true)
	assert.Equal(t, "EventStatistic.GCC_Debug+CM55", qualified.ProjectName(cm55GCCDebug))
	assert.Equal(t, "EventStatistic.GCC_Debug+CM55/EventStatistic.GCC_Debug+CM55.cprj", qualified.ProjectFile(cm55GCCDebug))
	assert.Equal(t,
		"EventStatistic.GCC_Debug+CM55/EventStatistic.GCC_Debug+CM55_outdir/EventStatistic.GCC_Debug+CM55.elf",
		qualified.ImageFile(cm55GCCDebug))

	ac6 := cm55GCCDebug
	ac6.Compiler = matrix.CompilerAC6
	assert.True(t, strings.HasSuffix(qualified.ImageFile(ac6), ".axf"))
}

func TestModelConfigFile(t *testing.T) {
	r := New(DefaultExample, false)
	assert.Equal(t, "model_config_cm55.txt", r.ModelConfigFile(cm55GCCDebug))

	sse := cm55GCCDebug
	sse.Device = matrix.DeviceSSE300
	assert.Equal(t, "model_config_sse300.txt", r.ModelConfigFile(sse))
}

func TestArchiveNames(t *testing.T) {
	r := &Resolver{Example: DefaultExample, Now: fixedClock("20240101000000")}

	name := r.ArchiveName(cm55GCCDebug)
	assert.Equal(t, "EventStatistic-GCC-Debug-CM55-20240101000000.zip", name)
	assert.Equal(t, "EventStatistic-GCC-Debug-CM55-*.zip", r.ArchivePattern(cm55GCCDebug))
}

func TestLinkerFile(t *testing.T) {
	r := New(DefaultExample, false)
	tests := []struct {
		compiler matrix.Compiler
		want     string
	}{
		{matrix.CompilerAC6, "ARMCM55_ac6.sct"},
		{matrix.CompilerGCC, "gcc_linker_script.ld"},
		{matrix.CompilerIAR, "iar_linker_script.icf"},
		{matrix.CompilerCLANG, ""},
	}
	for _, tt := range tests {
		t.Run(tt.compiler.Code(), func(t *testing.T) {
			c := cm55GCCDebug
			c.Compiler = tt.compiler
			assert.Equal(t, tt.want, r.LinkerFile(c))
		})
	}
}

func TestLinkerFileCoversMatrix(t *testing.T) {
	r := New(DefaultExample, true)
	for _, c := range matrix.Expand(matrix.Filter{}) {
		switch c.Compiler {
		case matrix.CompilerAC6, matrix.CompilerGCC, matrix.CompilerIAR:
			assert.NotEmpty(t, r.LinkerFile(c), c.String())
		default:
			assert.Empty(t, r.LinkerFile(c), c.String())
		}
	}
}
