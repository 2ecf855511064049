// Package adapter contains infrastructure adapters for the recast CLI.
package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	m "recast.dev/pkg/recast/internal/model"
)

// ProcessRunner abstracts external command execution for the domain layer.
type ProcessRunner interface {
	// Run executes the spec as a child process and waits for it to finish or
	// time out. A timeout is reported in the outcome classification, not as an
	// error; the returned error covers spawn problems (missing binary, bad
	// working directory) only.
	Run(ctx context.Context, spec m.CommandSpec, opts ...RunOption) (m.RunOutcome, error)
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	timeout time.Duration
	testID  string
	phase   m.PhaseName
}

// WithTimeout bounds the invocation. Zero means no deadline.
func WithTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		c.timeout = d
	}
}

// WithLogKey tags the invocation's log artifact with a test identifier and
// phase name so failures are attributable to a specific phase of a specific
// scenario run.
func WithLogKey(testID string, phase m.PhaseName) RunOption {
	return func(c *runConfig) {
		c.testID = testID
		c.phase = phase
	}
}

// LocalProcessRunner executes commands with os/exec and tees their output to
// per-(test, phase) log artifacts. The run stamp is injected at construction
// so artifacts of distinct harness runs never collide.
type LocalProcessRunner struct {
	logDir string
	stamp  string

	mu  sync.Mutex
	seq map[string]int
}

// RunStampLayout formats the stamp embedded in log artifact names.
const RunStampLayout = "20060102T150405"

// NewLocalProcessRunner constructs a LocalProcessRunner writing log artifacts
// under logDir, tagged with the given run stamp.
func NewLocalProcessRunner(logDir m.Path, stamp time.Time) *LocalProcessRunner {
	return &LocalProcessRunner{
		logDir: string(logDir),
		stamp:  stamp.Format(RunStampLayout),
		seq:    make(map[string]int),
	}
}

// Run executes the spec and classifies the outcome.
func (r *LocalProcessRunner) Run(ctx context.Context, spec m.CommandSpec, opts ...RunOption) (m.RunOutcome, error) {
	cfg := runConfig{testID: "recast", phase: "run"}
	for _, opt := range opts {
		opt(&cfg)
	}

	if spec.Empty() {
		return m.RunOutcome{}, fmt.Errorf("empty command spec")
	}

	runCtx := ctx

	var cancel context.CancelFunc
	if cfg.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	logFile, logPath, err := r.openLogArtifact(cfg)
	if err != nil {
		return m.RunOutcome{}, err
	}

	defer func() { _ = logFile.Close() }()

	cmd := exec.CommandContext(runCtx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = string(spec.Dir)

	var captured bytes.Buffer

	sink := &lockedWriter{w: io.MultiWriter(logFile, &captured)}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return m.RunOutcome{}, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return m.RunOutcome{}, fmt.Errorf("stderr pipe: %w", err)
	}

	started := time.Now()

	if err := cmd.Start(); err != nil {
		slog.Error("Failed to start command", "argv", spec.Argv, "dir", spec.Dir, "error", err)
		return m.RunOutcome{}, fmt.Errorf("start %v: %w", spec.Argv, err)
	}

	var group errgroup.Group

	group.Go(func() error {
		_, copyErr := io.Copy(sink, stdout)
		return copyErr
	})
	group.Go(func() error {
		_, copyErr := io.Copy(sink, stderr)
		return copyErr
	})

	if err := group.Wait(); err != nil {
		slog.Warn("Output copy interrupted", "argv", spec.Argv, "error", err)
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(started)

	outcome := m.RunOutcome{
		Class:   m.ClassSuccess,
		Elapsed: elapsed,
		Output:  captured.String(),
		LogPath: m.Path(logPath),
	}

	switch {
	case runCtx.Err() != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded):
		outcome.Class = m.ClassTimedOut
		outcome.ExitCode = -1

		slog.Warn("Command timed out", "argv", spec.Argv, "dir", spec.Dir, "timeout", cfg.timeout)
	case waitErr != nil:
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return outcome, fmt.Errorf("wait %v: %w", spec.Argv, waitErr)
		}

		outcome.Class = m.ClassFailure
		outcome.ExitCode = exitErr.ExitCode()

		slog.Error("Command failed",
			"argv", spec.Argv, "dir", spec.Dir, "exitCode", outcome.ExitCode, "log", logPath)
	}

	slog.Debug("Command finished",
		"argv", spec.Argv, "class", outcome.Class.String(), "elapsed", elapsed)

	return outcome, nil
}

// openLogArtifact creates the log file for this invocation. Repeated runs of
// the same (testID, phase) pair get increasing sequence numbers so earlier
// diagnostics are never overwritten.
func (r *LocalProcessRunner) openLogArtifact(cfg runConfig) (*os.File, string, error) {
	if err := os.MkdirAll(r.logDir, 0o750); err != nil {
		return nil, "", fmt.Errorf("create log dir: %w", err)
	}

	key := cfg.testID + "/" + string(cfg.phase)

	r.mu.Lock()
	r.seq[key]++
	seq := r.seq[key]
	r.mu.Unlock()

	name := fmt.Sprintf("%s_%s_%s_%03d.log", cfg.testID, cfg.phase, r.stamp, seq)
	path := filepath.Join(r.logDir, name)

	// #nosec G304 - path is assembled from the tool's own log directory
	file, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("create log artifact: %w", err)
	}

	return file, path, nil
}

// lockedWriter serializes writes from the stdout and stderr copiers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return lw.w.Write(p)
}
