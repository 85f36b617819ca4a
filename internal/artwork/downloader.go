package artwork

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mediashelf/mediashelf/internal/models"
)

// Downloader fetches remote artwork into a Cache. Every call is best
// effort: callers fire it from detached tasks and discard the error.
type Downloader struct {
	cache   *Cache
	cdnBase string // e.g. https://image.tmdb.org/t/p
	client  *http.Client
}

// NewDownloader builds a downloader over the given cache and image-CDN base.
func NewDownloader(cache *Cache, cdnBase string) *Downloader {
	return &Downloader{
		cache:   cache,
		cdnBase: cdnBase,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the image at the catalog-relative path in the requested
// size variant and stores it under (ownerID, kind, variant). Only 2xx
// responses are accepted.
func (d *Downloader) Fetch(remotePath, ownerID string, kind models.ArtworkKind, variant models.ArtworkVariant) error {
	if remotePath == "" {
		return fmt.Errorf("empty remote path")
	}

	// Variant is the CDN's size segment: <base>/<variant><path>,
	// where path carries its own leading slash.
	url := d.cdnBase + "/" + string(variant) + remotePath

	resp, err := d.client.Get(url)
	if err != nil {
		return fmt.Errorf("fetch artwork %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch artwork %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read artwork body: %w", err)
	}

	return d.cache.Put(data, ownerID, kind, variant)
}
