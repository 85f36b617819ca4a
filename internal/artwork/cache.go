// Package artwork implements the on-disk image cache. Blobs are keyed by
// (owner ID, kind, size variant); presence on disk is the cache — there is
// no in-memory layer on top.
package artwork

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mediashelf/mediashelf/internal/models"
)

// kindDirs are the three partitions of the cache tree.
var kindDirs = []models.ArtworkKind{
	models.ArtworkPoster,
	models.ArtworkBackdrop,
	models.ArtworkStill,
}

// Cache is a content-addressable blob store for artwork images.
type Cache struct {
	mu   sync.RWMutex
	root string
}

// NewCache creates (or reopens) the artwork tree under root.
func NewCache(root string) (*Cache, error) {
	for _, kind := range kindDirs {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create artwork dir %s: %w", kind, err)
		}
	}
	return &Cache{root: root}, nil
}

// blobPath is one file per (owner, variant) pair inside the kind partition.
func (c *Cache) blobPath(ownerID string, kind models.ArtworkKind, variant models.ArtworkVariant) string {
	return filepath.Join(c.root, string(kind), ownerID+"-"+string(variant)+".jpg")
}

// Put stores raw image bytes for the given key, overwriting any previous blob.
func (c *Cache) Put(data []byte, ownerID string, kind models.ArtworkKind, variant models.ArtworkVariant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.WriteFile(c.blobPath(ownerID, kind, variant), data, 0o644); err != nil {
		return fmt.Errorf("write artwork %s/%s: %w", kind, ownerID, err)
	}
	return nil
}

// Get returns the cached bytes, or ok=false when the blob is absent.
func (c *Cache) Get(ownerID string, kind models.ArtworkKind, variant models.ArtworkVariant) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, err := os.ReadFile(c.blobPath(ownerID, kind, variant))
	if err != nil {
		return nil, false
	}
	return data, true
}

// LocalPath returns the on-disk path for a cached blob, or ok=false when it
// does not exist. Presentation layers use this to skip redundant loads.
func (c *Cache) LocalPath(ownerID string, kind models.ArtworkKind, variant models.ArtworkVariant) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path := c.blobPath(ownerID, kind, variant)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// DeleteAll removes every variant across all three kinds for one owner.
// Used when the owner's metadata cache entry is invalidated.
func (c *Cache) DeleteAll(ownerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, kind := range kindDirs {
		dir := filepath.Join(c.root, string(kind))
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("list artwork %s: %w", kind, err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ownerID+"-") {
				if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
					return fmt.Errorf("delete artwork %s: %w", e.Name(), err)
				}
			}
		}
	}
	return nil
}

// DeleteEverything empties all three partitions.
func (c *Cache) DeleteEverything() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, kind := range kindDirs {
		dir := filepath.Join(c.root, string(kind))
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("list artwork %s: %w", kind, err)
		}
		for _, e := range entries {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("delete artwork %s: %w", e.Name(), err)
			}
		}
	}
	return nil
}

// TotalSizeBytes sums every blob in the partition tree.
func (c *Cache) TotalSizeBytes() (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk artwork tree: %w", err)
	}
	return total, nil
}

// HumanReadableSize formats the total cache size for display.
func (c *Cache) HumanReadableSize() string {
	total, err := c.TotalSizeBytes()
	if err != nil {
		return "unknown"
	}
	return FormatBytes(total)
}

// FormatBytes renders a byte count as B/KB/MB/GB.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMG"[exp])
}
