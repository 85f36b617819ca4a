package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	assert.False(t, s.HasKey())
	_, ok := s.Retrieve()
	assert.False(t, ok)

	require.NoError(t, s.Store("tmdb-key-123"))
	assert.True(t, s.HasKey())

	key, ok := s.Retrieve()
	assert.True(t, ok)
	assert.Equal(t, "tmdb-key-123", key)
}

func TestFileStoreRejectsEmptyKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, s.Store(""))
	assert.Error(t, s.Store("   "))
	assert.False(t, s.HasKey())
}

func TestFileStoreTrimsWhitespace(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Store("  padded-key\n"))
	key, ok := s.Retrieve()
	assert.True(t, ok)
	assert.Equal(t, "padded-key", key)
}

func TestFileStoreDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Store("key"))
	require.NoError(t, s.Delete())
	assert.False(t, s.HasKey())

	// Deleting twice is fine.
	require.NoError(t, s.Delete())
}

func TestFileStorePermissions(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Store("secret"))

	info, err := os.Stat(filepath.Join(dir, "apikey.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Store("persisted"))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	key, ok := second.Retrieve()
	assert.True(t, ok)
	assert.Equal(t, "persisted", key)
}

func TestMemStore(t *testing.T) {
	s := NewMemStore("")
	assert.False(t, s.HasKey())

	require.NoError(t, s.Store("k"))
	key, ok := s.Retrieve()
	assert.True(t, ok)
	assert.Equal(t, "k", key)

	require.NoError(t, s.Delete())
	assert.False(t, s.HasKey())
}
