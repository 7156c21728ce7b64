package runner

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecExecutor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	e := &ExecExecutor{}

	out, err := e.Execute(context.Background(), t.TempDir(), []string{"sh", "-c", "echo hello; echo oops >&2"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ExitCode)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Equal(t, "oops\n", out.Stderr)

	out, err = e.Execute(context.Background(), t.TempDir(), []string{"sh", "-c", "exit 3"})
	require.Error(t, err)
	assert.Equal(t, 3, out.ExitCode)

	out, err = e.Execute(context.Background(), t.TempDir(), []string{"exmatrix-no-such-tool"})
	require.Error(t, err)
	assert.Equal(t, 127, out.ExitCode)

	_, err = e.Execute(context.Background(), ".", nil)
	require.Error(t, err)
}
