package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"recast.dev/pkg/recast/internal/adapter"
	m "recast.dev/pkg/recast/internal/model"
)

// scriptedRunner pops outcomes from per-command queues; an exhausted or absent
// queue yields success. Lets a test fail the baseline build but pass the
// verification build.
type scriptedRunner struct {
	queues map[string][]m.RunOutcome
	calls  []string
}

func (s *scriptedRunner) Run(_ context.Context, spec m.CommandSpec, _ ...adapter.RunOption) (m.RunOutcome, error) {
	name := spec.Argv[0]
	s.calls = append(s.calls, name)

	queue := s.queues[name]
	if len(queue) == 0 {
		return m.RunOutcome{Class: m.ClassSuccess}, nil
	}

	outcome := queue[0]
	s.queues[name] = queue[1:]

	return outcome, nil
}

type stubGuard struct {
	dirty    bool
	dirtyErr error
	resets   int
}

func (g *stubGuard) IsDirty(context.Context) (bool, error) {
	return g.dirty, g.dirtyErr
}

func (g *stubGuard) CleanAndReset(context.Context) error {
	g.resets++
	g.dirty = false

	return nil
}

// scenarioFixture lays out a suite root with one transpilable source file and
// wires an orchestrator around it.
type scenarioFixture struct {
	suite  m.Suite
	runner *scriptedRunner
	guard  *stubGuard
	target string
}

func newScenarioFixture(t *testing.T, guard *stubGuard) *scenarioFixture {
	t.Helper()

	root := t.TempDir()
	sourceDir := filepath.Join(root, "source")
	if err := os.MkdirAll(sourceDir, 0o750); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(sourceDir, "hydro.f90")
	writeFile(t, target, "A")

	return &scenarioFixture{
		suite: m.Suite{
			Root:      m.Path(root),
			SourceDir: "source",
			SetupCmd:  []string{"setup"},
			BuildCmd:  []string{"build"},
			RunCmd:    []string{"execute"},
		},
		runner: &scriptedRunner{queues: map[string][]m.RunOutcome{}},
		guard:  guard,
		target: target,
	}
}

func (f *scenarioFixture) orchestrator() Orchestrator {
	fs := adapter.NewLocalSourceFS()

	var guard adapter.RepositoryGuard
	if f.guard != nil {
		guard = f.guard
	}

	return NewOrchestrator(
		fs,
		NewBuildRunner(f.runner, fs),
		NewTranspiler(substitutionPipeline("A", "B", ""), fs),
		guard,
	)
}

func baseScenario() m.Scenario {
	return m.Scenario{
		Name:      "hydroTranspile",
		Files:     []m.Path{"hydro.f90"},
		ObjectDir: m.DefaultObjectDir,
		CleanRepo: true,
	}
}

func TestOrchestratorRunScenario(t *testing.T) {
	t.Run("quick with transpile targets is rejected before any spawn", func(t *testing.T) {
		f := newScenarioFixture(t, nil)
		scenario := baseScenario()
		scenario.Quick = true

		report, err := f.orchestrator().RunScenario(context.Background(), f.suite, scenario)

		var cfgErr *m.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigurationError, got %v", err)
		}
		if report.Status != m.StatusFailed {
			t.Errorf("status %s, want %s", report.Status, m.StatusFailed)
		}
		if len(f.runner.calls) != 0 {
			t.Errorf("no process may be spawned, got calls %v", f.runner.calls)
		}
		if got := readFile(t, f.target); got != "A" {
			t.Errorf("target must stay untouched, contains %q", got)
		}
	})

	t.Run("transpile then verify passes end to end", func(t *testing.T) {
		f := newScenarioFixture(t, nil)

		report, err := f.orchestrator().RunScenario(context.Background(), f.suite, baseScenario())
		if err != nil {
			t.Fatalf("RunScenario error: %v", err)
		}
		if !report.Passed() {
			t.Errorf("status %s, want passing", report.Status)
		}
		if report.Baseline != nil {
			t.Error("no baseline requested, none may be reported")
		}
		if report.Verify == nil {
			t.Fatal("verification result missing")
		}
		if got := readFile(t, f.target); got != "B" {
			t.Errorf("target contains %q, want %q", got, "B")
		}
		if got := readFile(t, f.target+".bak"); got != "A" {
			t.Errorf("backup contains %q, want %q", got, "A")
		}

		// setup, build, execute exactly once: verification only.
		if len(f.runner.calls) != 3 {
			t.Errorf("calls %v, want one verification pass", f.runner.calls)
		}
	})

	t.Run("baseline failure is diagnostic by default", func(t *testing.T) {
		f := newScenarioFixture(t, nil)
		f.runner.queues["build"] = []m.RunOutcome{
			{Class: m.ClassFailure, ExitCode: 1, Output: "baseline broken"},
		}

		scenario := baseScenario()
		scenario.PreVerify = true

		report, err := f.orchestrator().RunScenario(context.Background(), f.suite, scenario)
		if err != nil {
			t.Fatalf("non-fatal baseline must not fail the scenario: %v", err)
		}
		if !report.Passed() {
			t.Errorf("status %s, want passing", report.Status)
		}
		if report.Baseline == nil || report.Baseline.Status != m.StatusFailed {
			t.Error("baseline result must record the failure")
		}
		if got := readFile(t, f.target); got != "B" {
			t.Errorf("transpilation must still happen, target contains %q", got)
		}
	})

	t.Run("fatal baseline failure stops the scenario", func(t *testing.T) {
		f := newScenarioFixture(t, nil)
		f.runner.queues["build"] = []m.RunOutcome{
			{Class: m.ClassFailure, ExitCode: 1, Output: "baseline broken"},
		}

		scenario := baseScenario()
		scenario.PreVerify = true
		scenario.BaselineFatal = true

		report, err := f.orchestrator().RunScenario(context.Background(), f.suite, scenario)

		var failure *m.ProcessFailure
		if !errors.As(err, &failure) {
			t.Fatalf("expected ProcessFailure, got %v", err)
		}
		if report.Status != m.StatusFailed {
			t.Errorf("status %s, want %s", report.Status, m.StatusFailed)
		}
		if got := readFile(t, f.target); got != "A" {
			t.Errorf("target must stay untouched, contains %q", got)
		}
	})

	t.Run("verification failure fails the scenario", func(t *testing.T) {
		f := newScenarioFixture(t, nil)
		f.runner.queues["execute"] = []m.RunOutcome{
			{Class: m.ClassFailure, ExitCode: 139, Output: "segfault"},
		}

		report, err := f.orchestrator().RunScenario(context.Background(), f.suite, baseScenario())

		var failure *m.ProcessFailure
		if !errors.As(err, &failure) {
			t.Fatalf("expected ProcessFailure, got %v", err)
		}
		if failure.Phase != m.PhaseExecute {
			t.Errorf("failure phase %s, want %s", failure.Phase, m.PhaseExecute)
		}
		if report.Status != m.StatusFailed {
			t.Errorf("status %s, want %s", report.Status, m.StatusFailed)
		}
	})

	t.Run("dirty tree is reset when the scenario permits", func(t *testing.T) {
		guard := &stubGuard{dirty: true}
		f := newScenarioFixture(t, guard)

		_, err := f.orchestrator().RunScenario(context.Background(), f.suite, baseScenario())
		if err != nil {
			t.Fatalf("RunScenario error: %v", err)
		}
		if guard.resets != 1 {
			t.Errorf("resets %d, want 1", guard.resets)
		}
	})

	t.Run("dirty tree is left alone when cleaning is forbidden", func(t *testing.T) {
		guard := &stubGuard{dirty: true}
		f := newScenarioFixture(t, guard)

		scenario := baseScenario()
		scenario.CleanRepo = false

		_, err := f.orchestrator().RunScenario(context.Background(), f.suite, scenario)
		if err != nil {
			t.Fatalf("RunScenario error: %v", err)
		}
		if guard.resets != 0 {
			t.Errorf("resets %d, want 0", guard.resets)
		}
	})

	t.Run("guard probe failure fails the scenario", func(t *testing.T) {
		guard := &stubGuard{dirtyErr: errors.New("not a git repository")}
		f := newScenarioFixture(t, guard)

		report, err := f.orchestrator().RunScenario(context.Background(), f.suite, baseScenario())
		if err == nil {
			t.Fatal("expected guard error")
		}
		if report.Status != m.StatusFailed {
			t.Errorf("status %s, want %s", report.Status, m.StatusFailed)
		}
		if len(f.runner.calls) != 0 {
			t.Errorf("no process may be spawned, got calls %v", f.runner.calls)
		}
	})
}
