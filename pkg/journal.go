// Package pkg is a package that provides utilities for recast.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Journal is a generic append-only, gob-backed ledger of items of type T.
// One journal file covers one run; a gob stream cannot be extended by a later
// process, so history across runs is a directory of journal files.
type Journal[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	AppendBatch(items []T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type journalImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// Append implements Journal.
func (j *journalImpl[T]) Append(item T) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.encoder.Encode(item); err != nil {
		slog.Error("failed to encode item", "path", j.path, "index", j.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	j.length++
	slog.Debug("appended item", "path", j.path, "index", j.length-1)

	return nil
}

// AppendBatch implements Journal.
func (j *journalImpl[T]) AppendBatch(items []T) error {
	for _, item := range items {
		if err := j.Append(item); err != nil {
			return err
		}
	}

	return nil
}

// Path implements Journal.
func (j *journalImpl[T]) Path() string {
	return j.path
}

// Len implements Journal.
func (j *journalImpl[T]) Len() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.length
}

// Get implements Journal.
func (j *journalImpl[T]) Get(index uint64) (T, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	var zero T

	if index >= j.length {
		slog.Warn("get index out of bounds", "path", j.path, "index", index, "length", j.length)
		return zero, fmt.Errorf("index %d out of bounds (length %d)", index, j.length)
	}

	file, err := os.Open(j.path)
	if err != nil {
		slog.Error("failed to open journal for get", "path", j.path, "error", err)
		return zero, fmt.Errorf("failed to open journal: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := uint64(0); i <= index; i++ {
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode item", "path", j.path, "index", i, "error", err)
			return zero, fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}
	}

	return item, nil
}

// Range implements Journal.
func (j *journalImpl[T]) Range(fn func(index uint64, item T) error) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.Open(j.path)
	if err != nil {
		slog.Error("failed to open journal for range", "path", j.path, "error", err)
		return fmt.Errorf("failed to open journal: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	var item T

	for i := range j.length {
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode item during range", "path", j.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			slog.Warn("range callback error", "path", j.path, "index", i, "error", err)
			return err
		}
	}

	slog.Debug("range completed", "path", j.path, "count", j.length)

	return nil
}

// Close implements Journal.
func (j *journalImpl[T]) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		if err := j.file.Close(); err != nil {
			slog.Error("failed to close journal", "path", j.path, "error", err)
			return err
		}

		slog.Debug("closed journal", "path", j.path, "length", j.length)
	}

	return nil
}

// NewJournal creates a journal file in dir using the CreateTemp pattern.
func NewJournal[T any](dir, pattern string) (Journal[T], error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		slog.Error("failed to create journal directory", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		slog.Error("failed to create journal file", "path", dir, "error", err)
		return nil, fmt.Errorf("failed to create journal file: %w", err)
	}

	slog.Debug("created journal", "path", file.Name())

	return &journalImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
		length:  0,
	}, nil
}
