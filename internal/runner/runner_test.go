package runner

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerRun(t *testing.T) {
	r := New(0, nil)
	ctx := context.Background()

	t.Run("captures stdout on success", func(t *testing.T) {
		res, err := r.Run(ctx, Options{}, "sh", "-c", "echo hello")
		require.NoError(t, err)
		assert.True(t, res.OK)
		assert.Equal(t, "hello\n", res.Stdout)
		assert.Equal(t, 0, res.ExitCode)
	})

	t.Run("non-zero exit is a result, not an error", func(t *testing.T) {
		res, err := r.Run(ctx, Options{}, "sh", "-c", "echo oops >&2; exit 3")
		require.NoError(t, err)
		assert.False(t, res.OK)
		assert.Equal(t, "oops\n", res.Stderr)
		assert.Equal(t, 3, res.ExitCode)
	})

	t.Run("runs in dir with extra env", func(t *testing.T) {
		dir := t.TempDir()
		res, err := r.Run(ctx, Options{Dir: dir, Env: []string{"PROBE_VALUE=42"}}, "sh", "-c", `pwd; echo "$PROBE_VALUE"`)
		require.NoError(t, err)
		assert.Contains(t, res.Stdout, "42")
	})

	t.Run("missing executable is an error", func(t *testing.T) {
		_, err := r.Run(ctx, Options{}, "this-binary-definitely-does-not-exist-xyzzy")
		assert.Error(t, err)
	})
}

func TestExecRunnerTimeout(t *testing.T) {
	r := New(100*time.Millisecond, nil)

	res, err := r.Run(context.Background(), Options{}, "sh", "-c", "exec sleep 5")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Stderr, "timed out after 100ms")
}

func TestExecRunnerLogsCommands(t *testing.T) {
	var buf bytes.Buffer
	r := New(0, log.New(&buf, "", 0))

	_, err := r.Run(context.Background(), Options{}, "sh", "-c", "true")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Executing")
	assert.Contains(t, buf.String(), "sh -c true")
}

func TestExecRunnerLookPath(t *testing.T) {
	r := New(0, nil)

	path, err := r.LookPath("sh")
	require.NoError(t, err)
	assert.NotEmpty(t, path)

	_, err = r.LookPath("this-binary-definitely-does-not-exist-xyzzy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExecutableNotFound))
}

func TestResultMessage(t *testing.T) {
	assert.Equal(t, "bad", Result{Stderr: "  bad\n", Stdout: "out"}.Message())
	assert.Equal(t, "out", Result{Stderr: " \n", Stdout: "out\n"}.Message())
	assert.Equal(t, "", Result{}.Message())
}
