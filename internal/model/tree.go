package model

// SyntaxTree is the source-specific parse result of one file. Its payload is
// opaque to the harness; only the pipeline stages interpret it.
type SyntaxTree struct {
	Origin  Path
	Payload []byte
}

// GeneralTree is the normalized representation independent of surface syntax,
// suitable for multiple output back-ends. Opaque to the harness.
type GeneralTree struct {
	Origin  Path
	Payload []byte
}
