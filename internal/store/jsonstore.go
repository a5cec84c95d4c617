package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONStore is a file-backed key-value store holding arbitrary JSON values.
// The settings store uses this.
type JSONStore struct {
	name string
	dir  string

	mu   sync.Mutex
	data map[string]json.RawMessage
}

var _ Store = (*JSONStore)(nil)

// OpenJSON loads the store file <dir>/<name>.json if it exists, verifying it
// against the directory's checksum manifest first. A missing file yields an
// empty store (fresh install).
func OpenJSON(dir, name string) (*JSONStore, error) {
	s := &JSONStore{
		name: name,
		dir:  dir,
		data: make(map[string]json.RawMessage),
	}

	path := s.path()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}

	if err := verifyChecksum(dir, s.fileName()); err != nil {
		return nil, fmt.Errorf("store %q failed integrity check: %w", name, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store %q: %w", name, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse store %q: %w", name, err)
	}
	if s.data == nil {
		s.data = make(map[string]json.RawMessage)
	}
	return s, nil
}

func (s *JSONStore) Name() string { return s.name }

// Set stores a value under key. The value must marshal to JSON.
func (s *JSONStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %q: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Get unmarshals the value stored under key into out. Returns false when the
// key is absent.
func (s *JSONStore) Get(key string, out any) (bool, error) {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("unmarshal value for %q: %w", key, err)
	}
	return true, nil
}

// Len reports the number of keys held in memory.
func (s *JSONStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Clear empties the in-memory view. Nothing touches disk until Save.
func (s *JSONStore) Clear() {
	s.mu.Lock()
	s.data = make(map[string]json.RawMessage)
	s.mu.Unlock()
}

// Save persists the in-memory view to disk and records its checksum.
func (s *JSONStore) Save() error {
	s.mu.Lock()
	raw, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal store %q: %w", s.name, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create stores directory: %w", err)
	}
	if err := os.WriteFile(s.path(), raw, 0o644); err != nil {
		return fmt.Errorf("write store %q: %w", s.name, err)
	}
	if err := recordChecksum(s.dir, s.fileName()); err != nil {
		return fmt.Errorf("record checksum for store %q: %w", s.name, err)
	}
	return nil
}

func (s *JSONStore) fileName() string { return s.name + ".json" }
func (s *JSONStore) path() string     { return filepath.Join(s.dir, s.fileName()) }
