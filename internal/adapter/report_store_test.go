package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	m "recast.dev/pkg/recast/internal/model"
)

func sampleReports() []m.ScenarioReport {
	return []m.ScenarioReport{
		{
			Scenario:  "hydroTranspile",
			StartedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			Status:    m.StatusPassed,
			Tag:       m.StatusPassed.String(),
			Files: []m.FileReport{
				{Target: "hydro.f90", Backup: "hydro.f90.bak", BackedUp: true},
			},
			Verify: &m.BuildRunResult{
				Status: m.StatusPassed,
				Tag:    m.StatusPassed.String(),
			},
		},
		{
			Scenario: "buildOnly",
			Status:   m.StatusDegraded,
			Tag:      m.StatusDegraded.String(),
			Baseline: &m.BuildRunResult{
				Status: m.StatusFailed,
				Tag:    m.StatusFailed.String(),
			},
		},
	}
}

func TestYAMLReportStore(t *testing.T) {
	t.Run("save and reload round-trips status", func(t *testing.T) {
		store := NewReportStore()
		dir := m.Path(filepath.Join(t.TempDir(), "reports"))

		require.NoError(t, store.SaveReports(dir, sampleReports()))

		loaded, err := store.LoadReports(dir)
		require.NoError(t, err)
		require.Len(t, loaded, 2)

		require.Equal(t, "hydroTranspile", loaded[0].Scenario)
		require.Equal(t, m.StatusPassed, loaded[0].Status)
		require.True(t, loaded[0].Passed())
		require.NotNil(t, loaded[0].Verify)
		require.Equal(t, m.StatusPassed, loaded[0].Verify.Status)
		require.Len(t, loaded[0].Files, 1)
		require.True(t, loaded[0].Files[0].BackedUp)

		require.Equal(t, m.StatusDegraded, loaded[1].Status)
		require.True(t, loaded[1].Passed())
		require.NotNil(t, loaded[1].Baseline)
		require.Equal(t, m.StatusFailed, loaded[1].Baseline.Status)
	})

	t.Run("each save leaves a history journal", func(t *testing.T) {
		store := NewReportStore()
		dir := m.Path(filepath.Join(t.TempDir(), "reports"))

		require.NoError(t, store.SaveReports(dir, sampleReports()))
		require.NoError(t, store.SaveReports(dir, sampleReports()[:1]))

		entries, err := os.ReadDir(filepath.Join(string(dir), historyDirName))
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("latest save wins", func(t *testing.T) {
		store := NewReportStore()
		dir := m.Path(filepath.Join(t.TempDir(), "reports"))

		require.NoError(t, store.SaveReports(dir, sampleReports()))
		require.NoError(t, store.SaveReports(dir, sampleReports()[:1]))

		loaded, err := store.LoadReports(dir)
		require.NoError(t, err)
		require.Len(t, loaded, 1)
	})

	t.Run("load from empty dir fails", func(t *testing.T) {
		store := NewReportStore()

		_, err := store.LoadReports(m.Path(t.TempDir()))
		require.Error(t, err)
	})
}
