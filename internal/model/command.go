// Package model defines the data structures for transpile-verify scenarios.
package model

// Path represents a file system path.
type Path string

// CommandSpec is an ordered argument vector plus the directory it runs in.
// Specs are immutable once constructed; derive variants with Extend.
type CommandSpec struct {
	Argv []string
	Dir  Path
}

// NewCommandSpec builds a CommandSpec from an argument vector and working directory.
func NewCommandSpec(dir Path, argv ...string) CommandSpec {
	owned := make([]string, len(argv))
	copy(owned, argv)

	return CommandSpec{Argv: owned, Dir: dir}
}

// Extend returns a new spec with extra arguments appended to the vector.
// The receiver is not modified.
func (c CommandSpec) Extend(args ...string) CommandSpec {
	argv := make([]string, 0, len(c.Argv)+len(args))
	argv = append(argv, c.Argv...)
	argv = append(argv, args...)

	return CommandSpec{Argv: argv, Dir: c.Dir}
}

// InDir returns a copy of the spec with a different working directory.
func (c CommandSpec) InDir(dir Path) CommandSpec {
	spec := c.Extend()
	spec.Dir = dir

	return spec
}

// Empty reports whether the spec has no arguments at all.
func (c CommandSpec) Empty() bool {
	return len(c.Argv) == 0
}
