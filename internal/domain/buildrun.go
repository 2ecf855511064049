package domain

import (
	"context"
	"log/slog"
	"time"

	"recast.dev/pkg/recast/internal/adapter"
	m "recast.dev/pkg/recast/internal/model"
)

// BuildPlan describes one configure/build/execute pass over a working root.
type BuildPlan struct {
	// TestID tags log artifacts produced by this pass.
	TestID string

	// ObjectDir is the absolute build artifact directory.
	ObjectDir m.Path

	// Setup runs in the working root; Build and Execute in ObjectDir.
	Setup   m.CommandSpec
	Build   m.CommandSpec
	Execute m.CommandSpec

	// Quick skips setup and build when ObjectDir already exists. An
	// iterative-development shortcut only; never combined with transpilation.
	Quick bool

	// ExecuteTimeout bounds the execute phase. Zero means no deadline.
	ExecuteTimeout time.Duration
}

// BuildRunner drives a build plan through its phase state machine.
type BuildRunner interface {
	// Run executes setup, build and execute in order, short-circuiting on the
	// first fatal failure. An execute timeout terminates in StatusDegraded and
	// is not an error. The result is returned alongside the error so callers
	// can report partial phase progress.
	Run(ctx context.Context, plan BuildPlan) (m.BuildRunResult, error)
}

type buildRunner struct {
	runner adapter.ProcessRunner
	fs     adapter.SourceFS
}

// NewBuildRunner constructs a BuildRunner backed by the provided process
// runner and filesystem adapters.
func NewBuildRunner(runner adapter.ProcessRunner, fs adapter.SourceFS) BuildRunner {
	return &buildRunner{runner: runner, fs: fs}
}

func (b *buildRunner) Run(ctx context.Context, plan BuildPlan) (m.BuildRunResult, error) {
	result := m.BuildRunResult{Status: m.StatusPending}

	if plan.Quick && b.fs.DirExists(plan.ObjectDir) {
		slog.Warn("Skipping setup & build, object dir already exists",
			"objectDir", plan.ObjectDir, "testID", plan.TestID)

		result.Phases = append(result.Phases,
			m.PhaseReport{Phase: m.PhaseSetup, Skipped: true},
			m.PhaseReport{Phase: m.PhaseBuild, Skipped: true},
		)
	} else {
		if err := b.runPhase(ctx, &result, plan, m.PhaseSetup, m.StatusSetup, plan.Setup, 0); err != nil {
			return result, err
		}

		if err := b.runPhase(ctx, &result, plan, m.PhaseBuild, m.StatusBuild, plan.Build, 0); err != nil {
			return result, err
		}
	}

	if err := b.runPhase(ctx, &result, plan, m.PhaseExecute, m.StatusExecute, plan.Execute, plan.ExecuteTimeout); err != nil {
		return result, err
	}

	if result.Status != m.StatusDegraded {
		result.Status = m.StatusPassed
	}

	result.Tag = result.Status.String()

	return result, nil
}

// runPhase executes one phase and folds its outcome into the result. Setup and
// build block indefinitely; only the execute phase carries a deadline.
func (b *buildRunner) runPhase(
	ctx context.Context,
	result *m.BuildRunResult,
	plan BuildPlan,
	phase m.PhaseName,
	running m.Status,
	spec m.CommandSpec,
	timeout time.Duration,
) error {
	result.Status = running
	result.Tag = running.String()

	slog.Info("Phase starting", "phase", phase, "testID", plan.TestID, "argv", spec.Argv)

	opts := []adapter.RunOption{adapter.WithLogKey(plan.TestID, phase)}
	if timeout > 0 {
		opts = append(opts, adapter.WithTimeout(timeout))
	}

	outcome, err := b.runner.Run(ctx, spec, opts...)
	if err != nil {
		result.Status = m.StatusFailed
		result.Tag = result.Status.String()

		return err
	}

	result.Phases = append(result.Phases, m.NewPhaseReport(phase, outcome))

	switch outcome.Class {
	case m.ClassTimedOut:
		// Long simulations sometimes exceed the soft deadline; degrade, don't fail.
		slog.Warn("Phase timed out, continuing",
			"phase", phase, "testID", plan.TestID, "elapsed", outcome.Elapsed)

		result.Status = m.StatusDegraded
		result.Tag = result.Status.String()

		return nil
	case m.ClassFailure:
		result.Status = m.StatusFailed
		result.Tag = result.Status.String()

		return &m.ProcessFailure{
			Phase:    phase,
			Spec:     spec,
			ExitCode: outcome.ExitCode,
			Output:   outcome.Output,
		}
	case m.ClassSuccess:
	}

	slog.Info("Phase succeeded", "phase", phase, "testID", plan.TestID, "elapsed", outcome.Elapsed)

	return nil
}
