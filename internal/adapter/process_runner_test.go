package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "recast.dev/pkg/recast/internal/model"
)

func shell(dir m.Path, script string) m.CommandSpec {
	return m.NewCommandSpec(dir, "sh", "-c", script)
}

func TestLocalProcessRunnerRun(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	t.Run("successful command", func(t *testing.T) {
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		outcome, err := runner.Run(context.Background(), shell("", "echo hello"))
		require.NoError(t, err)
		require.Equal(t, m.ClassSuccess, outcome.Class)
		require.Equal(t, 0, outcome.ExitCode)
		require.True(t, outcome.OK())
		require.Contains(t, outcome.Output, "hello")
	})

	t.Run("non-zero exit is a classified failure, not an error", func(t *testing.T) {
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		outcome, err := runner.Run(context.Background(), shell("", "echo broken >&2; exit 3"))
		require.NoError(t, err)
		require.Equal(t, m.ClassFailure, outcome.Class)
		require.Equal(t, 3, outcome.ExitCode)
		require.False(t, outcome.OK())
		require.Contains(t, outcome.Output, "broken")
	})

	t.Run("timeout is classified, not an error", func(t *testing.T) {
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		outcome, err := runner.Run(context.Background(),
			shell("", "sleep 5"), WithTimeout(100*time.Millisecond))
		require.NoError(t, err)
		require.Equal(t, m.ClassTimedOut, outcome.Class)
		require.Equal(t, -1, outcome.ExitCode)
		require.Less(t, outcome.Elapsed, 5*time.Second)
	})

	t.Run("missing binary is an error", func(t *testing.T) {
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		_, err := runner.Run(context.Background(),
			m.NewCommandSpec("", "definitely-not-a-binary-7f3a"))
		require.Error(t, err)
	})

	t.Run("empty spec is rejected", func(t *testing.T) {
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		_, err := runner.Run(context.Background(), m.CommandSpec{})
		require.Error(t, err)
	})

	t.Run("runs in the spec's working directory", func(t *testing.T) {
		dir := t.TempDir()
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		outcome, err := runner.Run(context.Background(), shell(m.Path(dir), "pwd"))
		require.NoError(t, err)
		require.Equal(t, dir, strings.TrimSpace(outcome.Output))
	})

	t.Run("log artifacts carry key, stamp and sequence", func(t *testing.T) {
		logDir := t.TempDir()
		runner := NewLocalProcessRunner(m.Path(logDir), stamp)

		first, err := runner.Run(context.Background(),
			shell("", "echo first"), WithLogKey("sodShock", m.PhaseBuild))
		require.NoError(t, err)

		second, err := runner.Run(context.Background(),
			shell("", "echo second"), WithLogKey("sodShock", m.PhaseBuild))
		require.NoError(t, err)

		require.Equal(t,
			filepath.Join(logDir, "sodShock_build_20260314T092653_001.log"),
			string(first.LogPath))
		require.Equal(t,
			filepath.Join(logDir, "sodShock_build_20260314T092653_002.log"),
			string(second.LogPath))

		raw, err := os.ReadFile(string(first.LogPath))
		require.NoError(t, err)
		require.Contains(t, string(raw), "first")

		raw, err = os.ReadFile(string(second.LogPath))
		require.NoError(t, err)
		require.Contains(t, string(raw), "second")
	})

	t.Run("distinct phases get distinct sequences", func(t *testing.T) {
		logDir := t.TempDir()
		runner := NewLocalProcessRunner(m.Path(logDir), stamp)

		build, err := runner.Run(context.Background(),
			shell("", "true"), WithLogKey("sodShock", m.PhaseBuild))
		require.NoError(t, err)

		execute, err := runner.Run(context.Background(),
			shell("", "true"), WithLogKey("sodShock", m.PhaseExecute))
		require.NoError(t, err)

		require.Contains(t, string(build.LogPath), "_build_")
		require.Contains(t, string(execute.LogPath), "_execute_")
		require.True(t, strings.HasSuffix(string(build.LogPath), "_001.log"))
		require.True(t, strings.HasSuffix(string(execute.LogPath), "_001.log"))
	})

	t.Run("stderr is captured alongside stdout", func(t *testing.T) {
		runner := NewLocalProcessRunner(m.Path(t.TempDir()), stamp)

		outcome, err := runner.Run(context.Background(),
			shell("", "echo out; echo err >&2"))
		require.NoError(t, err)
		require.Contains(t, outcome.Output, "out")
		require.Contains(t, outcome.Output, "err")
	})
}
