package adapter

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"

	m "recast.dev/pkg/recast/internal/model"
)

// SourceFS abstracts filesystem operations the domain layer performs on the
// simulation checkout. It hides direct `os` access so the transpile and
// orchestration logic can be tested without touching a real tree.
type SourceFS interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// Rename moves a file; used for the one-time backup of transpile targets.
	Rename(from, to m.Path) error

	// FileExists reports whether path exists and is a regular file.
	FileExists(path m.Path) bool

	// DirExists reports whether path exists and is a directory.
	DirExists(path m.Path) bool

	// HashFile returns a stable fingerprint (SHA-256) for the file at path.
	HashFile(path m.Path) (string, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)
}

// LocalSourceFS is the concrete SourceFS over the local filesystem.
type LocalSourceFS struct{}

// NewLocalSourceFS constructs a LocalSourceFS ready to be wired into the
// orchestrator.
func NewLocalSourceFS() *LocalSourceFS {
	return &LocalSourceFS{}
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFS) ReadFile(path m.Path) ([]byte, error) {
	// #nosec G304 - path is a harness-configured source file, not user input
	return os.ReadFile(string(path))
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFS) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// Rename moves a file.
func (a *LocalSourceFS) Rename(from, to m.Path) error {
	return os.Rename(string(from), string(to))
}

// FileExists reports whether path exists and is a regular file.
func (a *LocalSourceFS) FileExists(path m.Path) bool {
	info, err := os.Stat(string(path))

	return err == nil && info.Mode().IsRegular()
}

// DirExists reports whether path exists and is a directory.
func (a *LocalSourceFS) DirExists(path m.Path) bool {
	info, err := os.Stat(string(path))

	return err == nil && info.IsDir()
}

// HashFile returns the SHA-256 hash of the file at the provided path.
func (a *LocalSourceFS) HashFile(path m.Path) (string, error) {
	// #nosec G304 - path is a harness-configured source file, not user input
	f, err := os.Open(string(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFS) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFS) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}
