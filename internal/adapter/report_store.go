package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	m "recast.dev/pkg/recast/internal/model"
	"recast.dev/pkg/recast/pkg"
)

// ReportStore persists scenario reports between harness runs.
type ReportStore interface {
	SaveReports(dir m.Path, reports []m.ScenarioReport) error
	LoadReports(dir m.Path) ([]m.ScenarioReport, error)
}

// reportsFileName is the latest-run report file inside the output directory.
const reportsFileName = "reports.yaml"

// historyDirName holds one gob journal per harness run.
const historyDirName = "history"

// YAMLReportStore writes the latest reports as YAML and appends every saved
// report to a per-run history journal.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// SaveReports writes reports.yaml under dir and appends to the history journal.
func (s *YAMLReportStore) SaveReports(dir m.Path, reports []m.ScenarioReport) error {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	raw, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	target := filepath.Join(string(dir), reportsFileName)
	if err := os.WriteFile(target, raw, 0o600); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	if err := s.appendHistory(dir, reports); err != nil {
		// History is best-effort; the YAML report already landed.
		slog.Warn("Failed to append report history", "dir", dir, "error", err)
	}

	slog.Debug("Saved reports", "path", target, "count", len(reports))

	return nil
}

func (s *YAMLReportStore) appendHistory(dir m.Path, reports []m.ScenarioReport) error {
	journal, err := pkg.NewJournal[m.ScenarioReport](
		filepath.Join(string(dir), historyDirName), "run-*.gob")
	if err != nil {
		return err
	}

	defer func() { _ = journal.Close() }()

	return journal.AppendBatch(reports)
}

// LoadReports reads the latest reports.yaml from dir.
func (s *YAMLReportStore) LoadReports(dir m.Path) ([]m.ScenarioReport, error) {
	target := filepath.Join(string(dir), reportsFileName)

	// #nosec G304 - target is the tool's own output directory
	raw, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("read reports: %w", err)
	}

	var reports []m.ScenarioReport
	if err := yaml.Unmarshal(raw, &reports); err != nil {
		return nil, fmt.Errorf("unmarshal reports: %w", err)
	}

	// Status round-trips through its label.
	for i := range reports {
		reports[i].Status = m.ParseStatus(reports[i].Tag)

		if reports[i].Baseline != nil {
			reports[i].Baseline.Status = m.ParseStatus(reports[i].Baseline.Tag)
		}

		if reports[i].Verify != nil {
			reports[i].Verify.Status = m.ParseStatus(reports[i].Verify.Tag)
		}
	}

	return reports, nil
}
