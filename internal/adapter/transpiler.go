package adapter

import (
	"context"

	m "recast.dev/pkg/recast/internal/model"
)

// The transpiler pipeline is a plug-in chain of five opaque capabilities.
// Any conforming implementation can be substituted, which lets tests use
// deterministic text-substitution stages instead of a real parser.

// Reader loads source text for one target file.
type Reader interface {
	Read(ctx context.Context, path m.Path) ([]byte, error)
}

// Parser turns source text into a source-specific syntax tree.
// A rejected grammar surfaces as *model.ParseError; it is never retried.
type Parser interface {
	Parse(ctx context.Context, code []byte, origin m.Path) (m.SyntaxTree, error)
}

// Generalizer normalizes a syntax tree into a representation independent of
// surface syntax details.
type Generalizer interface {
	Generalize(ctx context.Context, tree m.SyntaxTree) (m.GeneralTree, error)
}

// Unparser renders a generalized tree back into source text in the same
// dialect.
type Unparser interface {
	Unparse(ctx context.Context, tree m.GeneralTree) ([]byte, error)
}

// Writer stores generated source text at the target path.
type Writer interface {
	Write(ctx context.Context, code []byte, path m.Path) error
}
