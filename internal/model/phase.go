package model

// Status tracks a build/run step through its phases.
//
// The progression is strictly ordered:
//
//	StatusPending -> StatusSetup -> StatusBuild -> StatusExecute
//	             -> {StatusPassed, StatusFailed, StatusDegraded}
//
// StatusDegraded is terminal and reported, but does not fail the scenario:
// it means the execute phase hit its soft deadline.
type Status int

const (
	// StatusPending means no phase has started yet.
	StatusPending Status = iota
	// StatusSetup means the configure/setup command is running.
	StatusSetup
	// StatusBuild means the build command is running.
	StatusBuild
	// StatusExecute means the simulation binary is running.
	StatusExecute
	// StatusPassed means every phase finished with exit 0.
	StatusPassed
	// StatusFailed means setup, build, or execute exited non-zero.
	StatusFailed
	// StatusDegraded means execute timed out; treated as a warning.
	StatusDegraded
)

// String returns a human-readable label for the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSetup:
		return "setup"
	case StatusBuild:
		return "build"
	case StatusExecute:
		return "execute"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusDegraded:
		return "degraded"
	}

	return "unknown"
}

// ParseStatus maps a label back to its Status; unknown labels yield
// StatusPending. Used when reports are re-read from disk.
func ParseStatus(label string) Status {
	for _, s := range []Status{
		StatusPending, StatusSetup, StatusBuild, StatusExecute,
		StatusPassed, StatusFailed, StatusDegraded,
	} {
		if s.String() == label {
			return s
		}
	}

	return StatusPending
}

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusPassed || s == StatusFailed || s == StatusDegraded
}

// Passing reports whether the status counts as a scenario pass.
// Degraded passes: an execute timeout is a warning, not a failure.
func (s Status) Passing() bool {
	return s == StatusPassed || s == StatusDegraded
}

// PhaseName identifies one build/run phase in logs and reports.
type PhaseName string

// Phase names used for log artifacts and reports.
const (
	PhaseSetup   PhaseName = "setup"
	PhaseBuild   PhaseName = "build"
	PhaseExecute PhaseName = "execute"
	PhaseGuard   PhaseName = "guard"
)
