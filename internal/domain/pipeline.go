// Package domain implements the transpile-verify orchestration logic.
package domain

import (
	"context"
	"fmt"
	"log/slog"

	"recast.dev/pkg/recast/internal/adapter"
	m "recast.dev/pkg/recast/internal/model"
)

// Pipeline chains the five transpiler capabilities. The stages are opaque:
// the pipeline only moves payloads between them.
type Pipeline struct {
	adapter.Reader
	adapter.Parser
	adapter.Generalizer
	adapter.Unparser
	adapter.Writer
}

// NewPipeline composes a Pipeline from the provided capabilities.
func NewPipeline(
	reader adapter.Reader,
	parser adapter.Parser,
	generalizer adapter.Generalizer,
	unparser adapter.Unparser,
	writer adapter.Writer,
) Pipeline {
	return Pipeline{
		Reader:      reader,
		Parser:      parser,
		Generalizer: generalizer,
		Unparser:    unparser,
		Writer:      writer,
	}
}

// Transform runs read -> parse -> generalize -> unparse for one target file
// and returns the regenerated source text. It does not touch the file system
// beyond the read; backup and write are the transpile step's job.
func (p Pipeline) Transform(ctx context.Context, path m.Path) ([]byte, error) {
	code, err := p.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	tree, err := p.Parse(ctx, code, path)
	if err != nil {
		// Parse errors surface as-is; the batch decides what to do with them.
		return nil, err
	}

	general, err := p.Generalize(ctx, tree)
	if err != nil {
		return nil, fmt.Errorf("generalize %s: %w", path, err)
	}

	out, err := p.Unparse(ctx, general)
	if err != nil {
		return nil, fmt.Errorf("unparse %s: %w", path, err)
	}

	slog.Debug("Transformed file", "path", path, "inBytes", len(code), "outBytes", len(out))

	return out, nil
}
