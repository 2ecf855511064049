package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	m "recast.dev/pkg/recast/internal/model"
)

// ExecTranspiler backs the Parser, Generalizer and Unparser capabilities with
// an external transpiler binary. Each stage is one invocation with the stage
// name passed as a flag, the input payload on stdin and the result on stdout.
// Tree payloads stay opaque byte blobs between invocations.
type ExecTranspiler struct {
	argv    []string
	timeout time.Duration
}

// Stage names passed to the external transpiler binary.
const (
	stageParse      = "parse"
	stageGeneralize = "generalize"
	stageUnparse    = "unparse"
)

// NewExecTranspiler constructs an ExecTranspiler invoking argv for each stage.
// The timeout bounds a single stage invocation; zero means no deadline.
func NewExecTranspiler(argv []string, timeout time.Duration) *ExecTranspiler {
	owned := make([]string, len(argv))
	copy(owned, argv)

	return &ExecTranspiler{argv: owned, timeout: timeout}
}

// Parse runs the external parse stage.
func (t *ExecTranspiler) Parse(ctx context.Context, code []byte, origin m.Path) (m.SyntaxTree, error) {
	payload, err := t.runStage(ctx, stageParse, origin, code)
	if err != nil {
		return m.SyntaxTree{}, &m.ParseError{Path: origin, Cause: err}
	}

	return m.SyntaxTree{Origin: origin, Payload: payload}, nil
}

// Generalize runs the external generalize stage.
func (t *ExecTranspiler) Generalize(ctx context.Context, tree m.SyntaxTree) (m.GeneralTree, error) {
	payload, err := t.runStage(ctx, stageGeneralize, tree.Origin, tree.Payload)
	if err != nil {
		return m.GeneralTree{}, fmt.Errorf("generalize %s: %w", tree.Origin, err)
	}

	return m.GeneralTree{Origin: tree.Origin, Payload: payload}, nil
}

// Unparse runs the external unparse stage.
func (t *ExecTranspiler) Unparse(ctx context.Context, tree m.GeneralTree) ([]byte, error) {
	code, err := t.runStage(ctx, stageUnparse, tree.Origin, tree.Payload)
	if err != nil {
		return nil, fmt.Errorf("unparse %s: %w", tree.Origin, err)
	}

	return code, nil
}

func (t *ExecTranspiler) runStage(ctx context.Context, stage string, origin m.Path, input []byte) ([]byte, error) {
	if len(t.argv) == 0 {
		return nil, errors.New("no transpiler command configured")
	}

	runCtx := ctx

	var cancel context.CancelFunc
	if t.timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(t.argv)+3)
	args = append(args, t.argv[1:]...)
	args = append(args, "--stage", stage, string(origin))

	cmd := exec.CommandContext(runCtx, t.argv[0], args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		slog.Error("Transpiler stage failed",
			"stage", stage, "origin", origin, "error", err, "stderr", stderr.String())

		return nil, fmt.Errorf("stage %s: %w: %s", stage, err, stderr.String())
	}

	slog.Debug("Transpiler stage finished", "stage", stage, "origin", origin, "bytes", stdout.Len())

	return stdout.Bytes(), nil
}

// CodeReader is the file-backed Reader capability.
type CodeReader struct{}

// NewCodeReader constructs a CodeReader.
func NewCodeReader() *CodeReader {
	return &CodeReader{}
}

// Read loads the source text of one target file.
func (r *CodeReader) Read(_ context.Context, path m.Path) ([]byte, error) {
	// #nosec G304 - path is a harness-configured source file, not user input
	return os.ReadFile(string(path))
}

// CodeWriter is the file-backed Writer capability.
type CodeWriter struct {
	perm os.FileMode
}

// NewCodeWriter constructs a CodeWriter writing files with the given mode.
func NewCodeWriter(perm os.FileMode) *CodeWriter {
	return &CodeWriter{perm: perm}
}

// Write stores generated source text at the target path.
func (w *CodeWriter) Write(_ context.Context, code []byte, path m.Path) error {
	return os.WriteFile(string(path), code, w.perm)
}
