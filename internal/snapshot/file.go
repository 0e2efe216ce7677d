package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-builder/internal/cv"
)

// FileStore keeps the snapshot as a JSON file inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store writing to dir, creating it on first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the location of the snapshot file.
func (s *FileStore) Path() string {
	return filepath.Join(s.dir, Key+".json")
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context) (*cv.Document, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return decode(s.Path(), data)
}

// Save implements Store. The file is replaced atomically so a crash mid-write never leaves a torn snapshot.
func (s *FileStore) Save(_ context.Context, doc cv.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, Key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}
