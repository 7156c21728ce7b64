package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/embedmatrix/exmatrix/action"
	"github.com/embedmatrix/exmatrix/archive"
	"github.com/embedmatrix/exmatrix/cli/tools"
	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/embedmatrix/exmatrix/naming"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	calls [][]string
	// fail makes every invocation of the named program exit with code 2
	fail map[string]bool
	// onRun is called for successful invocations
	onRun func(args []string)
}

func (f *fakeExecutor) Execute(_ context.Context, _ string, args []string) (Output, error) {
	f.calls = append(f.calls, args)
	if f.fail[args[0]] {
		return Output{ExitCode: 2}, errors.New(args[0] + " exited with code 2")
	}
	if f.onRun != nil {
		f.onRun(args)
	}
	return Output{}, nil
}

var cm55GCCDebug = matrix.Configuration{
	Device:   matrix.DeviceCM55,
	Compiler: matrix.CompilerGCC,
	Optimize: matrix.OptimizeDebug,
}

func newRunner(t *testing.T, work string, exec Executor) *Runner {
	t.Helper()
	names := naming.New(naming.DefaultExample, true)
	acts := action.New(zerolog.Nop(), names, tools.DefaultToolset(), tools.DefaultModels(), action.Options{
		WorkDir:   work,
		Solution:  "EventStatistic.csolution.yml",
		DeviceDir: "RTE/Device",
	})
	return New(zerolog.Nop(), acts, exec, work)
}

// fakeBuild writes an image into the output directory when cbuild runs.
func fakeBuild(work string) func(args []string) {
	return func(args []string) {
		if args[0] != "cbuild" || args[1] == "-c" {
			return
		}
		dir := filepath.Dir(args[1])
		out := filepath.Join(work, dir, filepath.Base(dir)+"_outdir")
		_ = os.MkdirAll(out, 0755)
		_ = os.WriteFile(filepath.Join(out, filepath.Base(dir)+".elf"), []byte("elf"), 0644)
	}
}

func TestBuildCreatesOneArchive(t *testing.T) {
	work := t.TempDir()
	exec := &fakeExecutor{onRun: fakeBuild(work)}
	r := newRunner(t, work, exec)

	res := r.RunAction(context.Background(), action.Build, cm55GCCDebug)
	require.NoError(t, res.Err)
	assert.True(t, res.Success())
	require.Len(t, res.Archives, 1)

	matches, err := filepath.Glob(filepath.Join(work, "EventStatistic-GCC-Debug-CM55-*.zip"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Regexp(t, `EventStatistic-GCC-Debug-CM55-[0-9]{14}\.zip$`, matches[0])

	var programs []string
	for _, c := range exec.calls {
		programs = append(programs, c[0])
	}
	assert.Equal(t, []string{"csolution", "arm-none-eabi-gcc", "cbuild"}, programs)
}

func TestBuildFailureCreatesNoArchive(t *testing.T) {
	work := t.TempDir()
	exec := &fakeExecutor{fail: map[string]bool{"cbuild": true}}
	r := newRunner(t, work, exec)

	res := r.RunAction(context.Background(), action.Build, cm55GCCDebug)
	assert.False(t, res.Success())
	assert.Empty(t, res.Archives)

	matches, err := filepath.Glob(filepath.Join(work, "*.zip"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	last := res.Steps[len(res.Steps)-1]
	assert.Equal(t, "archive", last.Name)
	assert.True(t, last.Skipped)
}

func TestBuildThenExtractRoundTrip(t *testing.T) {
	work := t.TempDir()
	exec := &fakeExecutor{onRun: fakeBuild(work)}
	r := newRunner(t, work, exec)

	res := r.RunAction(context.Background(), action.Build, cm55GCCDebug)
	require.True(t, res.Success())

	restore := t.TempDir()
	_, err := archive.Extract(res.Archives[0], restore)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(restore,
		"EventStatistic.GCC_Debug+CM55", "EventStatistic.GCC_Debug+CM55_outdir", "EventStatistic.GCC_Debug+CM55.elf"))
}

func TestExtractWithoutArchiveFails(t *testing.T) {
	r := newRunner(t, t.TempDir(), &fakeExecutor{})
	res := r.RunAction(context.Background(), action.Extract, cm55GCCDebug)
	require.ErrorIs(t, res.Err, archive.ErrNoArchive)
	assert.False(t, res.Success())
}

func TestRunMatrixContinuesAfterFailure(t *testing.T) {
	exec := &fakeExecutor{fail: map[string]bool{"VHT_MPS2_Cortex-M55": true}}
	r := newRunner(t, t.TempDir(), exec)

	configs := matrix.Expand(matrix.Filter{
		Devices:       []matrix.Device{matrix.DeviceCM3, matrix.DeviceCM55},
		Compilers:     []matrix.Compiler{matrix.CompilerGCC},
		Optimizations: []matrix.Optimize{matrix.OptimizeDebug},
	})
	results := r.RunMatrix(context.Background(), []string{action.Run, action.Events}, configs)
	require.Len(t, results, 4)

	assert.True(t, results[0].Success())
	assert.True(t, results[1].Success())
	assert.False(t, results[2].Success())
	assert.Equal(t, 2, results[2].Steps[0].ExitCode)
	// events still run for the failed configuration
	assert.True(t, results[3].Success())
}

func TestRunMatrixStopsOnCancel(t *testing.T) {
	r := newRunner(t, t.TempDir(), &fakeExecutor{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := r.RunMatrix(ctx, []string{action.Events}, matrix.Expand(matrix.Filter{}))
	assert.Empty(t, results)
}

func TestDryRunPrintsCommands(t *testing.T) {
	exec := &fakeExecutor{}
	r := newRunner(t, t.TempDir(), exec)
	var out bytes.Buffer
	r.DryRun = true
	r.Out = &out

	res := r.RunAction(context.Background(), action.Run, cm55GCCDebug)
	require.True(t, res.Success())
	assert.Empty(t, exec.calls)
	assert.True(t, strings.HasPrefix(out.String(), "VHT_MPS2_Cortex-M55 -q --simlimit 200 -f model_config_cm55.txt -a "))
}

func TestUnknownAction(t *testing.T) {
	r := newRunner(t, t.TempDir(), &fakeExecutor{})
	res := r.RunAction(context.Background(), "flash", cm55GCCDebug)
	require.ErrorIs(t, res.Err, action.ErrUnknownAction)
}
