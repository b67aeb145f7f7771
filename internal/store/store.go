package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists JSON documents under a local data directory, one flat
// file per concern. Every document is loaded fully into memory, mutated
// by its owning component, and rewritten whole. A per-document mutex
// serializes the rewrite so concurrent read-modify-write cycles cannot
// silently drop updates.
type Store struct {
	dir string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates the data directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// Path returns the absolute path of a named document.
func (s *Store) Path(name string) string { return filepath.Join(s.dir, name) }

func (s *Store) lock(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[name]
	if !ok {
		l = &sync.Mutex{}
		s.locks[name] = l
	}
	return l
}

// Load reads a document into v. Returns false with no error when the
// document does not exist yet.
func (s *Store) Load(name string, v any) (bool, error) {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", name, err)
	}
	return true, nil
}

// Save rewrites a document atomically: marshal, write to a temp file in
// the same directory, then rename over the target.
func (s *Store) Save(name string, v any) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp := s.Path(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, s.Path(name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// Remove deletes a document. Removing a missing document is not an error.
func (s *Store) Remove(name string) error {
	l := s.lock(name)
	l.Lock()
	defer l.Unlock()

	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}
