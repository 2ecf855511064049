package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"recast.dev/pkg/recast/internal/adapter"
	m "recast.dev/pkg/recast/internal/model"
)

// Transpiler rewrites target files in place through the pipeline, keeping a
// one-time backup of each original.
type Transpiler interface {
	// TranspileAll processes the batch. Missing files abort before any stage
	// runs; a per-file stage failure is recorded and the batch continues. The
	// returned error is non-nil only when nothing could proceed (missing
	// targets, or every file in the batch failed).
	TranspileAll(ctx context.Context, files []m.Path) ([]m.FileReport, error)
}

type transpiler struct {
	pipeline Pipeline
	fs       adapter.SourceFS
}

// NewTranspiler constructs a Transpiler from a pipeline and a filesystem
// adapter.
func NewTranspiler(pipeline Pipeline, fs adapter.SourceFS) Transpiler {
	return &transpiler{pipeline: pipeline, fs: fs}
}

func (t *transpiler) TranspileAll(ctx context.Context, files []m.Path) ([]m.FileReport, error) {
	if len(files) == 0 {
		return nil, nil
	}

	// Fail fast on absent targets, for the whole batch, before any pipeline
	// stage runs.
	var missing []m.Path

	for _, path := range files {
		if !t.fs.FileExists(path) {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return nil, &m.MissingFileError{Paths: missing}
	}

	reports := make([]m.FileReport, 0, len(files))

	var failures []error

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}

		report, err := t.transpileOne(ctx, path)
		if err != nil {
			report.Err = err.Error()
			failures = append(failures, err)

			slog.Error("Transpilation failed", "path", path, "error", err)
		}

		reports = append(reports, report)
	}

	if len(failures) == len(files) {
		return reports, fmt.Errorf("failed to transpile any of %d files: %w",
			len(files), errors.Join(failures...))
	}

	return reports, nil
}

// transpileOne transforms a single file and swaps it in behind a backup.
//
// The backup is created at most once per target: a second run without an
// intervening repository reset transpiles the already-transpiled content and
// leaves the backup untouched. One-shot-per-checkout is the intended
// semantics, not an oversight.
func (t *transpiler) transpileOne(ctx context.Context, path m.Path) (m.FileReport, error) {
	report := m.FileReport{Target: path, Backup: m.BackupPath(path)}

	beforeHash, err := t.fs.HashFile(path)
	if err != nil {
		return report, fmt.Errorf("hash %s: %w", path, err)
	}

	report.BeforeHash = beforeHash

	out, err := t.pipeline.Transform(ctx, path)
	if err != nil {
		return report, err
	}

	if !t.fs.FileExists(report.Backup) {
		if err := t.fs.Rename(path, report.Backup); err != nil {
			return report, fmt.Errorf("backup %s: %w", path, err)
		}

		report.BackedUp = true
	}

	if err := t.pipeline.Write(ctx, out, path); err != nil {
		return report, fmt.Errorf("write %s: %w", path, err)
	}

	afterHash, err := t.fs.HashFile(path)
	if err != nil {
		return report, fmt.Errorf("hash %s: %w", path, err)
	}

	report.AfterHash = afterHash

	slog.Info("Transpiled file",
		"path", path, "backedUp", report.BackedUp, "changed", beforeHash != afterHash)

	return report, nil
}
