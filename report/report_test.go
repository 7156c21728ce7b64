package report

import (
	"bytes"
	"encoding/xml"
	"errors"
	"testing"
	"time"

	"github.com/embedmatrix/exmatrix/action"
	"github.com/embedmatrix/exmatrix/matrix"
	"github.com/embedmatrix/exmatrix/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []runner.Result {
	cm55 := matrix.Configuration{Device: matrix.DeviceCM55, Compiler: matrix.CompilerGCC, Optimize: matrix.OptimizeDebug}
	cm3 := matrix.Configuration{Device: matrix.DeviceCM3, Compiler: matrix.CompilerAC6, Optimize: matrix.OptimizeRelease}
	return []runner.Result{
		{
			Config:   cm55,
			Action:   action.Build,
			Duration: 2 * time.Second,
			Steps: []action.StepResult{
				{Name: "csolution", Success: true},
				{Name: "cbuild", Success: true},
				{Name: "archive", Success: true},
			},
			Archives: []string{"EventStatistic-GCC-Debug-CM55-20240101000000.zip"},
		},
		{
			Config:   cm3,
			Action:   action.Build,
			Duration: time.Second,
			Steps: []action.StepResult{
				{Name: "csolution", Success: true},
				{Name: "cbuild", ExitCode: 2, Error: "cbuild exited with code 2"},
				{Name: "archive", Skipped: true},
			},
		},
		{
			Config: cm3,
			Action: action.Extract,
			Err:    errors.New("no matching archive"),
		},
	}
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Summary{Total: 3, Passed: 1, Failed: 2}, Summarize(sampleResults()))
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	sum := Console(&buf, sampleResults())
	assert.Equal(t, 2, sum.Failed)

	out := buf.String()
	assert.Contains(t, out, "GCC-Debug-CM55")
	assert.Contains(t, out, "EventStatistic-GCC-Debug-CM55-20240101000000.zip")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "exit=2")
	assert.Contains(t, out, "no matching archive")
	assert.Contains(t, out, "1 passed, 2 failed")
}

func TestJUnit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JUnit(&buf, "EventStatistic.", sampleResults()))

	var doc junitTestSuites
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 3, doc.Tests)
	assert.Equal(t, 2, doc.Failures)
	require.Len(t, doc.Suites, 2)

	build := doc.Suites[0]
	assert.Equal(t, "EventStatistic.build", build.Name)
	assert.Equal(t, 2, build.Tests)
	assert.Equal(t, 1, build.Failures)
	assert.Equal(t, "3.000", build.Time)
	assert.Nil(t, build.Cases[0].Failure)
	require.NotNil(t, build.Cases[1].Failure)
	assert.Equal(t, "cbuild failed with exit code 2", build.Cases[1].Failure.Message)

	extract := doc.Suites[1]
	require.NotNil(t, extract.Cases[0].Failure)
	assert.Equal(t, "no matching archive", extract.Cases[0].Failure.Message)
}
