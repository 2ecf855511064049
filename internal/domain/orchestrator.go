package domain

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recast.dev/pkg/recast/internal/adapter"
	m "recast.dev/pkg/recast/internal/model"
)

// Orchestrator composes the transpile step and the build/run step into one
// scenario run: optionally verify the untouched tree, transpile the target
// files, then verify again. The pass condition is always the final run.
type Orchestrator interface {
	RunScenario(ctx context.Context, suite m.Suite, scenario m.Scenario) (m.ScenarioReport, error)
}

type orchestrator struct {
	fs          adapter.SourceFS
	buildRunner BuildRunner
	transpiler  Transpiler
	guard       adapter.RepositoryGuard
}

// NewOrchestrator constructs an Orchestrator. The guard may be nil when the
// working tree is not under version control.
func NewOrchestrator(
	fs adapter.SourceFS,
	buildRunner BuildRunner,
	transpiler Transpiler,
	guard adapter.RepositoryGuard,
) Orchestrator {
	return &orchestrator{
		fs:          fs,
		buildRunner: buildRunner,
		transpiler:  transpiler,
		guard:       guard,
	}
}

func (o *orchestrator) RunScenario(ctx context.Context, suite m.Suite, scenario m.Scenario) (m.ScenarioReport, error) {
	report := m.ScenarioReport{
		Scenario:  scenario.Name,
		StartedAt: time.Now(),
		Status:    m.StatusPending,
		Tag:       m.StatusPending.String(),
	}

	// Contract checks come first; nothing may be spawned on a bad config.
	if err := validateScenario(scenario); err != nil {
		return o.failed(report, err), err
	}

	if err := o.ensureCleanTree(ctx, scenario); err != nil {
		return o.failed(report, err), err
	}

	plan := o.buildPlan(suite, scenario)

	if scenario.PreVerify {
		baseline, err := o.buildRunner.Run(ctx, plan)
		report.Baseline = &baseline

		if err != nil {
			// The baseline is diagnostic context; by default its failure is
			// logged without failing the scenario. BaselineFatal flips that.
			if scenario.BaselineFatal {
				return o.failed(report, err), err
			}

			slog.Warn("Baseline verification failed, continuing",
				"scenario", scenario.Name, "error", err)
		}
	}

	files := o.absoluteTargets(suite, scenario)

	fileReports, err := o.transpiler.TranspileAll(ctx, files)
	report.Files = fileReports

	if err != nil {
		return o.failed(report, err), err
	}

	verify, err := o.buildRunner.Run(ctx, plan)
	report.Verify = &verify

	if err != nil {
		return o.failed(report, err), err
	}

	report.Status = verify.Status
	report.Tag = report.Status.String()

	slog.Info("Scenario finished", "scenario", scenario.Name, "status", report.Tag)

	return report, nil
}

func validateScenario(scenario m.Scenario) error {
	if scenario.Quick && len(scenario.Files) > 0 {
		return &m.ConfigurationError{
			Scenario: scenario.Name,
			Reason:   "quick build reuse cannot be combined with transpile targets",
		}
	}

	return nil
}

// ensureCleanTree consults the repository guard before the scenario mutates
// the checkout. A dirty tree is reset only when the scenario permits it.
func (o *orchestrator) ensureCleanTree(ctx context.Context, scenario m.Scenario) error {
	if o.guard == nil {
		return nil
	}

	dirty, err := o.guard.IsDirty(ctx)
	if err != nil {
		return fmt.Errorf("repository guard: %w", err)
	}

	if !dirty {
		return nil
	}

	if !scenario.CleanRepo {
		slog.Warn("Working tree is dirty and scenario forbids cleaning",
			"scenario", scenario.Name)

		return nil
	}

	if err := o.guard.CleanAndReset(ctx); err != nil {
		return fmt.Errorf("repository guard: %w", err)
	}

	return nil
}

func (o *orchestrator) buildPlan(suite m.Suite, scenario m.Scenario) BuildPlan {
	objectDir := o.fs.JoinPath(string(suite.Root), string(scenario.ObjectDir))

	setup := m.NewCommandSpec(suite.Root, suite.SetupCmd...).Extend(scenario.SetupArgs...)
	build := m.NewCommandSpec(objectDir, suite.BuildCmd...)
	execute := m.NewCommandSpec(objectDir, suite.RunCmd...)

	return BuildPlan{
		TestID:         scenario.Name,
		ObjectDir:      objectDir,
		Setup:          setup,
		Build:          build,
		Execute:        execute,
		Quick:          scenario.Quick,
		ExecuteTimeout: scenario.ExecuteTimeout,
	}
}

func (o *orchestrator) absoluteTargets(suite m.Suite, scenario m.Scenario) []m.Path {
	files := make([]m.Path, 0, len(scenario.Files))
	for _, f := range scenario.Files {
		files = append(files, o.fs.JoinPath(string(suite.Root), string(suite.SourceDir), string(f)))
	}

	return files
}

func (o *orchestrator) failed(report m.ScenarioReport, err error) m.ScenarioReport {
	report.Status = m.StatusFailed
	report.Tag = report.Status.String()
	report.Err = err.Error()

	return report
}
