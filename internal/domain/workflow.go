package domain

import (
	"context"
	"fmt"
	"log/slog"

	"recast.dev/pkg/recast/internal/adapter"
	"recast.dev/pkg/recast/internal/controller"
	m "recast.dev/pkg/recast/internal/model"
)

// RunArgs parameterizes a harness run over the scenario catalog.
type RunArgs struct {
	Suite m.Suite

	// Names selects scenarios by name; empty means the whole catalog.
	Names []string

	// Reports is the output directory for persisted scenario reports.
	Reports m.Path
}

// ListArgs parameterizes the catalog listing.
type ListArgs struct {
	Suite m.Suite
}

// ReportArgs parameterizes viewing previously saved reports.
type ReportArgs struct {
	Reports m.Path
}

// Workflow is the application-level entry point behind the CLI commands.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) error
	List(ctx context.Context, args ListArgs) error
	Report(ctx context.Context, args ReportArgs) error
}

type workflow struct {
	adapter.ReportStore
	controller.UI
	Orchestrator
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(store adapter.ReportStore, ui controller.UI, orchestrator Orchestrator) Workflow {
	return &workflow{
		ReportStore:  store,
		UI:           ui,
		Orchestrator: orchestrator,
	}
}

// Run executes the selected scenarios strictly sequentially. Scenarios share
// one working root, so no two may overlap; each must reach a terminal outcome
// before the next begins.
func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	scenarios, err := selectScenarios(args.Suite, args.Names)
	if err != nil {
		return err
	}

	if err := w.Start(ctx); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}

	reports := make([]m.ScenarioReport, 0, len(scenarios))
	failures := 0

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			w.Close(ctx)
			return err
		}

		w.DisplayScenarioStart(ctx, scenario)

		report, runErr := w.RunScenario(ctx, args.Suite, scenario)
		if runErr != nil {
			failures++
		}

		w.DisplayScenarioResult(ctx, report)
		reports = append(reports, report)
	}

	w.Close(ctx)

	if err := w.SaveReports(args.Reports, reports); err != nil {
		slog.Error("Failed to save reports", "dir", args.Reports, "error", err)
		return fmt.Errorf("save reports: %w", err)
	}

	if err := w.DisplaySummary(ctx, reports); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d scenario(s) failed", failures, len(scenarios))
	}

	return nil
}

// List displays the scenario catalog.
func (w *workflow) List(ctx context.Context, args ListArgs) error {
	return w.DisplayCatalog(ctx, args.Suite)
}

// Report displays previously saved scenario reports.
func (w *workflow) Report(ctx context.Context, args ReportArgs) error {
	reports, err := w.LoadReports(args.Reports)
	if err != nil {
		slog.Error("Failed to load reports", "dir", args.Reports, "error", err)
		return fmt.Errorf("load reports: %w", err)
	}

	return w.DisplaySummary(ctx, reports)
}

func selectScenarios(suite m.Suite, names []string) ([]m.Scenario, error) {
	if len(names) == 0 {
		return suite.Scenarios, nil
	}

	scenarios := make([]m.Scenario, 0, len(names))

	for _, name := range names {
		scenario, ok := suite.Find(name)
		if !ok {
			return nil, &m.ConfigurationError{
				Scenario: name,
				Reason:   "not present in the catalog",
			}
		}

		scenarios = append(scenarios, scenario)
	}

	return scenarios, nil
}
