package model

import "time"

// FileReport records the transpilation of one target file.
type FileReport struct {
	Target     Path   `yaml:"target"`
	Backup     Path   `yaml:"backup,omitempty"`
	BackedUp   bool   `yaml:"backed_up"` // false when the backup pre-existed
	BeforeHash string `yaml:"before_hash,omitempty"`
	AfterHash  string `yaml:"after_hash,omitempty"`
	Err        string `yaml:"error,omitempty"`
}

// Failed reports whether the file's transpilation failed.
func (r FileReport) Failed() bool {
	return r.Err != ""
}

// PhaseReport records one build/run phase outcome.
type PhaseReport struct {
	Phase    PhaseName      `yaml:"phase"`
	Class    Classification `yaml:"-"`
	ClassTag string         `yaml:"class"`
	ExitCode int            `yaml:"exit_code"`
	Elapsed  time.Duration  `yaml:"elapsed"`
	Skipped  bool           `yaml:"skipped,omitempty"` // quick mode skipped setup/build
	LogPath  Path           `yaml:"log,omitempty"`
}

// NewPhaseReport builds a PhaseReport from a run outcome.
func NewPhaseReport(phase PhaseName, outcome RunOutcome) PhaseReport {
	return PhaseReport{
		Phase:    phase,
		Class:    outcome.Class,
		ClassTag: outcome.Class.String(),
		ExitCode: outcome.ExitCode,
		Elapsed:  outcome.Elapsed,
		LogPath:  outcome.LogPath,
	}
}

// BuildRunResult is the terminal state of one build/run step with its phases.
type BuildRunResult struct {
	Status Status        `yaml:"-"`
	Tag    string        `yaml:"status"`
	Phases []PhaseReport `yaml:"phases"`
}

// ScenarioReport is the persisted record of one scenario run.
type ScenarioReport struct {
	Scenario  string          `yaml:"scenario"`
	StartedAt time.Time       `yaml:"started_at"`
	Status    Status          `yaml:"-"`
	Tag       string          `yaml:"status"`
	Baseline  *BuildRunResult `yaml:"baseline,omitempty"`
	Files     []FileReport    `yaml:"files,omitempty"`
	Verify    *BuildRunResult `yaml:"verify,omitempty"`
	Err       string          `yaml:"error,omitempty"`
}

// Passed reports whether the scenario run counts as a pass.
func (r ScenarioReport) Passed() bool {
	return r.Status.Passing()
}
