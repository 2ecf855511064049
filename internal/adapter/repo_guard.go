package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	m "recast.dev/pkg/recast/internal/model"
)

// RepositoryGuard checks and restores the cleanliness of the working tree
// before a scenario mutates it.
type RepositoryGuard interface {
	// IsDirty reports whether the tree has uncommitted or untracked changes.
	IsDirty(ctx context.Context) (bool, error)

	// CleanAndReset removes untracked files and resets tracked ones, restoring
	// a known starting state (including clobbering leftover .bak files).
	CleanAndReset(ctx context.Context) error
}

// GitGuard implements RepositoryGuard by shelling out to git through the
// process runner, so guard activity lands in the same log artifacts as the
// build phases.
type GitGuard struct {
	runner ProcessRunner
	root   m.Path
	testID string
}

// NewGitGuard constructs a GitGuard for the checkout at root. Guard log
// artifacts are tagged with testID.
func NewGitGuard(runner ProcessRunner, root m.Path, testID string) *GitGuard {
	return &GitGuard{runner: runner, root: root, testID: testID}
}

// IsDirty runs `git status --porcelain` and reports any output as dirt.
// Untracked files count: a leftover backup makes the tree dirty.
func (g *GitGuard) IsDirty(ctx context.Context) (bool, error) {
	spec := m.NewCommandSpec(g.root, "git", "status", "--porcelain", "--untracked-files=all")

	outcome, err := g.runner.Run(ctx, spec, WithLogKey(g.testID, m.PhaseGuard))
	if err != nil {
		return false, fmt.Errorf("git status: %w", err)
	}

	if !outcome.OK() {
		return false, &m.ProcessFailure{
			Phase:    m.PhaseGuard,
			Spec:     spec,
			ExitCode: outcome.ExitCode,
			Output:   outcome.Output,
		}
	}

	return strings.TrimSpace(outcome.Output) != "", nil
}

// CleanAndReset runs `git clean -f -d -x` followed by `git reset --hard`.
func (g *GitGuard) CleanAndReset(ctx context.Context) error {
	steps := []m.CommandSpec{
		m.NewCommandSpec(g.root, "git", "clean", "-f", "-d", "-x"),
		m.NewCommandSpec(g.root, "git", "reset", "--hard"),
	}

	for _, spec := range steps {
		outcome, err := g.runner.Run(ctx, spec, WithLogKey(g.testID, m.PhaseGuard))
		if err != nil {
			return fmt.Errorf("git %s: %w", spec.Argv[1], err)
		}

		if !outcome.OK() {
			return &m.ProcessFailure{
				Phase:    m.PhaseGuard,
				Spec:     spec,
				ExitCode: outcome.ExitCode,
				Output:   outcome.Output,
			}
		}
	}

	slog.Warn("Repository has been cleaned and reset", "root", g.root)

	return nil
}
