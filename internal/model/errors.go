package model

import (
	"fmt"
	"strings"
	"time"
)

// ConfigurationError reports an invalid combination of scenario settings.
// It aborts the scenario before any external process is spawned.
type ConfigurationError struct {
	Scenario string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}

	return fmt.Sprintf("scenario %q: configuration error: %s", e.Scenario, e.Reason)
}

// MissingFileError reports transpilation targets absent from the source tree.
// Raised before any pipeline stage runs, listing every missing path.
type MissingFileError struct {
	Paths []Path
}

func (e *MissingFileError) Error() string {
	paths := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		paths[i] = string(p)
	}

	return fmt.Sprintf("missing target file(s): %s", strings.Join(paths, ", "))
}

// ParseError reports that the pipeline rejected a file's grammar.
// It fails the file, not the batch; it is surfaced, never retried.
type ParseError struct {
	Path  Path
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ProcessFailure reports a non-zero exit from a setup/build/execute command.
type ProcessFailure struct {
	Phase    PhaseName
	Spec     CommandSpec
	ExitCode int
	Output   string
}

func (e *ProcessFailure) Error() string {
	return fmt.Sprintf("%s command %v in %s exited %d",
		e.Phase, e.Spec.Argv, e.Spec.Dir, e.ExitCode)
}

// ProcessTimeout reports that the execute phase hit its soft deadline.
// Warning-level: scenarios degrade rather than fail on it.
type ProcessTimeout struct {
	Phase   PhaseName
	Spec    CommandSpec
	Timeout time.Duration
}

func (e *ProcessTimeout) Error() string {
	return fmt.Sprintf("%s command %v in %s exceeded %s",
		e.Phase, e.Spec.Argv, e.Spec.Dir, e.Timeout)
}
