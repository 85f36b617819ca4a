// Package store implements the on-disk metadata cache: one JSON document
// per key under a namespaced directory. Bulk load enumerates the directory
// and derives each key from its filename, so the layout is load-bearing.
package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists values of one record type, keyed by string. Reads may run
// concurrently; any write excludes all other access to the same instance.
type Store[T any] struct {
	mu  sync.RWMutex
	dir string
}

// New creates (or reopens) a namespaced document store under root.
func New[T any](root, namespace string) (*Store[T], error) {
	dir := filepath.Join(root, namespace)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir %s: %w", dir, err)
	}
	return &Store[T]{dir: dir}, nil
}

func (s *Store[T]) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Put atomically overwrites the document for key. The write goes to a temp
// file first and is renamed into place so a crash never leaves a torn doc.
func (s *Store[T]) Put(key string, value *T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

// Get returns the document for key, or nil when no document exists.
func (s *Store[T]) Get(key string) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &value, nil
}

// Exists reports whether a document is stored under key.
func (s *Store[T]) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.path(key))
	return err == nil
}

// GetAll loads every document in the namespace. Documents that fail to
// decode are skipped with a log line so one corrupt file cannot break a
// bulk load.
func (s *Store[T]) GetAll() (map[string]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}

	out := make(map[string]*T, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		key := strings.TrimSuffix(name, ".json")

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			log.Printf("Store: skipping unreadable document %s: %v", name, err)
			continue
		}
		var value T
		if err := json.Unmarshal(data, &value); err != nil {
			log.Printf("Store: skipping corrupt document %s: %v", name, err)
			continue
		}
		out[key] = &value
	}
	return out, nil
}

// Delete removes the document for key. Deleting a missing key is not an error.
func (s *Store[T]) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeleteAll removes every document in the namespace, keeping the directory.
func (s *Store[T]) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", s.dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return fmt.Errorf("delete %s: %w", e.Name(), err)
		}
	}
	return nil
}
