// Package keystore holds the remote catalog API key. The resolver
// short-circuits every lookup when no key is configured, so reads here
// happen before any parsing or network activity.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is the secret-store contract the resolver consumes.
type Store interface {
	Store(key string) error
	Retrieve() (string, bool)
	Delete() error
	HasKey() bool
}

// ──────────────────── File-backed store ────────────────────

type fileDoc struct {
	APIKey string `json:"api_key"`
}

// FileStore keeps the key in a mode-0600 JSON file under the data dir.
type FileStore struct {
	mu   sync.RWMutex
	path string
}

// NewFileStore opens (or prepares) the key file at dir/apikey.json.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, "apikey.json")}, nil
}

// Store saves the key, replacing any previous one.
func (f *FileStore) Store(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("refusing to store empty API key")
	}

	data, err := json.Marshal(fileDoc{APIKey: key})
	if err != nil {
		return fmt.Errorf("encode API key: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write API key: %w", err)
	}
	return nil
}

// Retrieve returns the stored key, or ok=false when none is configured.
func (f *FileStore) Retrieve() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", false
	}
	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil || doc.APIKey == "" {
		return "", false
	}
	return doc.APIKey, true
}

// Delete removes the stored key. Deleting a missing key is not an error.
func (f *FileStore) Delete() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete API key: %w", err)
	}
	return nil
}

// HasKey reports whether a non-empty key is configured.
func (f *FileStore) HasKey() bool {
	_, ok := f.Retrieve()
	return ok
}

// ──────────────────── In-memory store ────────────────────

// MemStore is a test double and also serves ephemeral deployments that
// pass the key via environment.
type MemStore struct {
	mu  sync.RWMutex
	key string
}

func NewMemStore(key string) *MemStore { return &MemStore{key: key} }

func (m *MemStore) Store(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("refusing to store empty API key")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = key
	return nil
}

func (m *MemStore) Retrieve() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key, m.key != ""
}

func (m *MemStore) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key = ""
	return nil
}

func (m *MemStore) HasKey() bool {
	_, ok := m.Retrieve()
	return ok
}
