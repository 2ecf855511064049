package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "recast.dev/pkg/recast/internal/model"
)

const sampleCatalog = `
version: 1
root: /sim/flash
source_dir: source
setup_cmd: ["./setup", "Sod"]
build_cmd: ["make"]
run_cmd: ["mpirun", "-np", "2", "./flash4"]
scenarios:
  - name: hydroTranspile
    setup_args: "-auto -2d"
    files:
      - physics/Hydro/hy_avgState.F90
      - physics/Hydro/hy_hllc.F90
    execute_timeout: 30m
  - name: buildOnly
    pre_verify: false
    clean_repo: false
    object_dir: obj_sod
  - name: quickRerun
    quick: true
`

func TestParseCatalog(t *testing.T) {
	t.Run("full catalog", func(t *testing.T) {
		suite, err := ParseCatalog([]byte(sampleCatalog))
		require.NoError(t, err)

		require.Equal(t, m.Path("/sim/flash"), suite.Root)
		require.Equal(t, m.Path("source"), suite.SourceDir)
		require.Equal(t, []string{"./setup", "Sod"}, suite.SetupCmd)
		require.Equal(t, []string{"make"}, suite.BuildCmd)
		require.Equal(t, []string{"mpirun", "-np", "2", "./flash4"}, suite.RunCmd)
		require.Len(t, suite.Scenarios, 3)

		first := suite.Scenarios[0]
		require.Equal(t, "hydroTranspile", first.Name)
		require.Equal(t, []string{"-auto", "-2d"}, first.SetupArgs)
		require.Len(t, first.Files, 2)
		require.Equal(t, m.DefaultObjectDir, first.ObjectDir)
		require.True(t, first.PreVerify)
		require.True(t, first.CleanRepo)
		require.False(t, first.Quick)
		require.Equal(t, 30*time.Minute, first.ExecuteTimeout)

		second := suite.Scenarios[1]
		require.False(t, second.PreVerify)
		require.False(t, second.CleanRepo)
		require.Equal(t, m.Path("obj_sod"), second.ObjectDir)
		require.Zero(t, second.ExecuteTimeout)

		require.True(t, suite.Scenarios[2].Quick)
	})

	t.Run("wrong version", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 2
root: /sim
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
`))
		requireConfigError(t, err)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
`))
		requireConfigError(t, err)
	})

	t.Run("missing command", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
root: /sim
setup_cmd: ["./setup"]
run_cmd: ["./run"]
`))
		requireConfigError(t, err)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
root: /sim
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
surprise: true
`))
		require.Error(t, err)
	})

	t.Run("nameless scenario", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
root: /sim
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
scenarios:
  - name: "  "
`))
		requireConfigError(t, err)
	})

	t.Run("duplicate scenario names", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
root: /sim
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
scenarios:
  - name: twin
  - name: twin
`))
		requireConfigError(t, err)
	})

	t.Run("bad execute timeout", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
root: /sim
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
scenarios:
  - name: slow
    execute_timeout: "thirty minutes"
`))
		requireConfigError(t, err)
	})

	t.Run("quick with transpile targets is rejected", func(t *testing.T) {
		_, err := ParseCatalog([]byte(`
version: 1
root: /sim
setup_cmd: ["./setup"]
build_cmd: ["make"]
run_cmd: ["./run"]
scenarios:
  - name: contradiction
    quick: true
    files: [a.f90]
`))
		requireConfigError(t, err)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("reads a catalog from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scenarios.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))

		suite, err := LoadCatalog(m.Path(path))
		require.NoError(t, err)
		require.Len(t, suite.Scenarios, 3)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCatalog(m.Path(filepath.Join(t.TempDir(), "absent.yaml")))
		require.Error(t, err)
	})
}

func requireConfigError(t *testing.T, err error) {
	t.Helper()

	var cfgErr *m.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
