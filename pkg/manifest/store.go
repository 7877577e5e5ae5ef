package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bilbywilby/IASIP-gifs/pkg/logger"
	"github.com/bilbywilby/IASIP-gifs/pkg/safeio"
)

// Store reads and writes the manifest file at a fixed path.
type Store struct {
	path string
}

// NewStore returns a store for the manifest at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the manifest file location.
func (s *Store) Path() string { return s.path }

// Load reads the manifest. A missing file is not an error: an empty manifest
// is persisted and returned, matching the create-if-absent lifecycle.
// Content that is not a JSON array of records fails with *MalformedError.
func (s *Store) Load() (Manifest, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		logger.Info("creating empty manifest", logger.String("path", s.path))
		empty := Manifest{}
		if err := s.Persist(empty); err != nil {
			return nil, fmt.Errorf("create empty manifest: %w", err)
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", s.path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &MalformedError{Path: s.path, Err: err}
	}
	if m == nil {
		return nil, &MalformedError{Path: s.path, Err: fmt.Errorf("expected a JSON array of records")}
	}
	return m, nil
}

// Persist serializes the manifest deterministically (2-space indent, stable
// key order, trailing newline) and replaces the file atomically via a
// temp-file rename in the same directory.
func (s *Store) Persist(m Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := safeio.EnsureDir(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("ensure manifest directory: %w", err)
	}
	if err := safeio.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("persist manifest %s: %w", s.path, err)
	}
	return nil
}

// Marshal renders the manifest in its canonical on-disk form. Persisting the
// same in-memory state always yields byte-identical output.
func Marshal(m Manifest) ([]byte, error) {
	if m == nil {
		m = Manifest{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}
