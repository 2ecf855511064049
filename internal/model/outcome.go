package model

import "time"

// Classification is the terminal judgement of a single child-process run.
type Classification int

const (
	// ClassSuccess indicates the process exited with code 0.
	ClassSuccess Classification = iota
	// ClassFailure indicates a non-zero exit code.
	ClassFailure
	// ClassTimedOut indicates the configured deadline elapsed before exit.
	// Timeouts are soft: callers may continue the scenario.
	ClassTimedOut
)

// String returns a human-readable label for the classification.
func (c Classification) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassFailure:
		return "failure"
	case ClassTimedOut:
		return "timed-out"
	}

	return "unknown"
}

// RunOutcome captures the result of one external command invocation.
// It is transient, scoped to a single Run call.
type RunOutcome struct {
	Class    Classification
	ExitCode int
	Elapsed  time.Duration
	Output   string // combined stdout+stderr, also teed to LogPath
	LogPath  Path   // diagnostic artifact for this invocation, if any
}

// OK reports whether the outcome counts as a clean success.
func (o RunOutcome) OK() bool {
	return o.Class == ClassSuccess
}
