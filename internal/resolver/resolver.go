// Package resolver orchestrates metadata resolution: filename parsing,
// tiered cache lookup (memory → disk store → remote catalog), best-match
// selection, negative-result caching, and background artwork population.
package resolver

import (
	"context"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/mediashelf/mediashelf/internal/artwork"
	"github.com/mediashelf/mediashelf/internal/catalog"
	"github.com/mediashelf/mediashelf/internal/keystore"
	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/parse"
	"github.com/mediashelf/mediashelf/internal/store"
)

// DefaultBatchDelay is the pause between consecutive remote resolves in a
// batch, a fixed-rate limiter against the catalog.
const DefaultBatchDelay = 250 * time.Millisecond

// Config carries every dependency explicitly; there are no process-wide
// defaults, so tests can run isolated parallel instances.
type Config struct {
	DataDir    string
	Provider   catalog.Provider
	Keys       keystore.Store
	Artwork    *artwork.Cache
	Downloader *artwork.Downloader
	BatchDelay time.Duration // zero means DefaultBatchDelay
}

// Resolver owns the in-memory record maps. The disk stores own their
// documents; the two tiers are synchronized at load time and on each write.
type Resolver struct {
	mu       sync.RWMutex
	movies   map[uuid.UUID]*models.MovieRecord
	episodes map[uuid.UUID]*models.EpisodeRecord
	shows    map[int]*models.ShowRecord
	seasons  map[string]*models.SeasonRecord

	movieStore   *store.Store[models.MovieRecord]
	episodeStore *store.Store[models.EpisodeRecord]
	showStore    *store.Store[models.ShowRecord]
	seasonStore  *store.Store[models.SeasonRecord]

	provider   catalog.Provider
	keys       keystore.Store
	artwork    *artwork.Cache
	downloader *artwork.Downloader

	flight     singleflight.Group
	batchDelay time.Duration

	bg sync.WaitGroup
	// OnArtworkCached, when set, is invoked after each background artwork
	// attempt. Tests use it instead of sleeping; production leaves it nil.
	OnArtworkCached func(ownerID string, kind models.ArtworkKind, err error)
}

// New builds a resolver, opens its four document stores under
// cfg.DataDir/metadata, and bulk-loads every stored record into memory.
func New(cfg Config) (*Resolver, error) {
	movieStore, err := store.New[models.MovieRecord](cfg.DataDir, "metadata/movies")
	if err != nil {
		return nil, err
	}
	episodeStore, err := store.New[models.EpisodeRecord](cfg.DataDir, "metadata/episodes")
	if err != nil {
		return nil, err
	}
	showStore, err := store.New[models.ShowRecord](cfg.DataDir, "metadata/shows")
	if err != nil {
		return nil, err
	}
	seasonStore, err := store.New[models.SeasonRecord](cfg.DataDir, "metadata/seasons")
	if err != nil {
		return nil, err
	}

	delay := cfg.BatchDelay
	if delay <= 0 {
		delay = DefaultBatchDelay
	}

	r := &Resolver{
		movies:       make(map[uuid.UUID]*models.MovieRecord),
		episodes:     make(map[uuid.UUID]*models.EpisodeRecord),
		shows:        make(map[int]*models.ShowRecord),
		seasons:      make(map[string]*models.SeasonRecord),
		movieStore:   movieStore,
		episodeStore: episodeStore,
		showStore:    showStore,
		seasonStore:  seasonStore,
		provider:     cfg.Provider,
		keys:         cfg.Keys,
		artwork:      cfg.Artwork,
		downloader:   cfg.Downloader,
		batchDelay:   delay,
	}
	r.loadFromStore()
	return r, nil
}

// loadFromStore populates the memory tier at startup. Corrupt documents
// were already skipped by the store; malformed keys are skipped here.
func (r *Resolver) loadFromStore() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if docs, err := r.movieStore.GetAll(); err == nil {
		for key, rec := range docs {
			id, err := uuid.Parse(key)
			if err != nil {
				log.Printf("[resolver] skipping movie doc with bad key %q", key)
				continue
			}
			r.movies[id] = rec
		}
	}
	if docs, err := r.episodeStore.GetAll(); err == nil {
		for key, rec := range docs {
			id, err := uuid.Parse(key)
			if err != nil {
				log.Printf("[resolver] skipping episode doc with bad key %q", key)
				continue
			}
			r.episodes[id] = rec
		}
	}
	if docs, err := r.showStore.GetAll(); err == nil {
		for key, rec := range docs {
			id, err := strconv.Atoi(key)
			if err != nil {
				log.Printf("[resolver] skipping show doc with bad key %q", key)
				continue
			}
			r.shows[id] = rec
		}
	}
	if docs, err := r.seasonStore.GetAll(); err == nil {
		for key, rec := range docs {
			r.seasons[key] = rec
		}
	}

	log.Printf("[resolver] loaded %d movies, %d episodes, %d shows, %d seasons from store",
		len(r.movies), len(r.episodes), len(r.shows), len(r.seasons))
}

// ──────────────────── Movie Resolution ────────────────────

// ResolveMovie resolves a movie file into a metadata record. Cache tiers
// are consulted unless forceRefresh; a cache hit makes zero remote calls.
// An unmatched record (MatchStatus unmatched) is returned with a nil error —
// errors are reserved for key/remote/storage failures.
func (r *Resolver) ResolveMovie(ctx context.Context, fileID uuid.UUID, filename string, forceRefresh bool) (*models.MovieRecord, error) {
	if !forceRefresh {
		if rec, ok := r.lookupMovie(fileID); ok {
			return rec, nil
		}
	}

	if !r.keys.HasKey() {
		return nil, catalog.NewError(catalog.KindAPIKeyNotConfigured, "configure a catalog API key first")
	}

	v, err, _ := r.flight.Do("movie:"+fileID.String(), func() (interface{}, error) {
		return r.resolveMovieRemote(ctx, fileID, filename)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.MovieRecord), nil
}

func (r *Resolver) resolveMovieRemote(ctx context.Context, fileID uuid.UUID, filename string) (*models.MovieRecord, error) {
	hint := parse.Movie(filename)

	candidates, err := r.provider.SearchMovies(ctx, hint.Title, hint.Year)
	if err != nil {
		return nil, err
	}

	candidate := SelectMovie(candidates, hint)
	if candidate == nil {
		// Persist the negative result so the next lookup costs nothing;
		// failure to persist it is not worth failing the resolve over.
		rec := models.UnmatchedMovie(fileID, hint.Title, hint.Year)
		r.putMovie(rec, true)
		log.Printf("[resolver] no candidates for %q (parsed %q)", filename, hint.Title)
		return rec, nil
	}

	details, err := r.provider.MovieDetails(ctx, candidate.CatalogID)
	if err != nil {
		return nil, err
	}

	rec := buildMovieRecord(fileID, details)
	if err := r.putMovie(rec, false); err != nil {
		return nil, catalog.WrapError(catalog.KindStorage, err)
	}

	if rec.PosterPath != nil {
		r.cacheArtworkAsync(fileID.String(), models.ArtworkPoster, *rec.PosterPath, models.VariantDetail)
	}
	return rec, nil
}

func buildMovieRecord(fileID uuid.UUID, d *catalog.MovieDetails) *models.MovieRecord {
	catalogID := d.ID
	return &models.MovieRecord{
		FileID:        fileID,
		CatalogID:     &catalogID,
		Title:         d.Title,
		OriginalTitle: optStr(d.OriginalTitle),
		Year:          yearOf(d.ReleaseDate),
		ReleaseDate:   optStr(d.ReleaseDate),
		Runtime:       optInt(d.Runtime),
		Genres:        d.Genres,
		Synopsis:      optStr(d.Overview),
		PosterPath:    optStr(d.PosterPath),
		BackdropPath:  optStr(d.BackdropPath),
		Rating:        optFloat(d.VoteAverage),
		MatchStatus:   models.MatchStatusMatched,
	}
}

// ──────────────────── Episode Resolution ────────────────────

// ResolveEpisode resolves a TV episode file. A cache miss costs two to
// three remote round trips: show search (+ show details when the show is
// new), then season details — seasons are always refetched, never trusted
// from the cache.
func (r *Resolver) ResolveEpisode(ctx context.Context, fileID uuid.UUID, filename string, forceRefresh bool) (*models.EpisodeRecord, error) {
	if !forceRefresh {
		if rec, ok := r.lookupEpisode(fileID); ok {
			return rec, nil
		}
	}

	if !r.keys.HasKey() {
		return nil, catalog.NewError(catalog.KindAPIKeyNotConfigured, "configure a catalog API key first")
	}

	v, err, _ := r.flight.Do("episode:"+fileID.String(), func() (interface{}, error) {
		return r.resolveEpisodeRemote(ctx, fileID, filename)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.EpisodeRecord), nil
}

func (r *Resolver) resolveEpisodeRemote(ctx context.Context, fileID uuid.UUID, filename string) (*models.EpisodeRecord, error) {
	hint := parse.TV(filename)
	if !hint.Valid {
		return nil, catalog.NewError(catalog.KindParsing, "no season/episode marker in "+filename)
	}

	candidates, err := r.provider.SearchShows(ctx, hint.ShowName)
	if err != nil {
		return nil, err
	}

	candidate := SelectShow(candidates, hint)
	if candidate == nil {
		rec := models.UnmatchedEpisode(fileID, hint.ShowName)
		r.putEpisode(rec, true)
		log.Printf("[resolver] no show candidates for %q (parsed %q)", filename, hint.ShowName)
		return rec, nil
	}
	seriesID := candidate.CatalogID

	// Show details are fetched only when the show is not cached yet; the
	// record is shared across every file of that show.
	if _, ok := r.lookupShow(seriesID); !ok {
		show, err := r.provider.ShowDetails(ctx, seriesID)
		if err != nil {
			return nil, err
		}
		showRec := buildShowRecord(show)
		if err := r.putShow(showRec); err != nil {
			return nil, catalog.WrapError(catalog.KindStorage, err)
		}
		if showRec.PosterPath != nil {
			r.cacheArtworkAsync(strconv.Itoa(seriesID), models.ArtworkPoster, *showRec.PosterPath, models.VariantDetail)
		}
	}

	season, err := r.provider.SeasonDetails(ctx, seriesID, hint.Season)
	if err != nil {
		return nil, err
	}
	seasonRec := buildSeasonRecord(seriesID, hint.Season, season)
	if err := r.putSeason(seasonRec); err != nil {
		return nil, catalog.WrapError(catalog.KindStorage, err)
	}

	var episode *catalog.EpisodeDetails
	for i := range season.Episodes {
		if season.Episodes[i].EpisodeNumber == hint.Episode {
			episode = &season.Episodes[i]
			break
		}
	}
	if episode == nil {
		rec := models.UnmatchedEpisode(fileID, hint.ShowName)
		r.putEpisode(rec, true)
		log.Printf("[resolver] %s S%02dE%02d not in season listing", hint.ShowName, hint.Season, hint.Episode)
		return rec, nil
	}

	rec := buildEpisodeRecord(fileID, seriesID, hint.Season, episode)
	if err := r.putEpisode(rec, false); err != nil {
		return nil, catalog.WrapError(catalog.KindStorage, err)
	}

	if rec.StillPath != nil {
		r.cacheArtworkAsync(fileID.String(), models.ArtworkStill, *rec.StillPath, models.VariantThumb)
	}
	return rec, nil
}

func buildShowRecord(d *catalog.ShowDetails) *models.ShowRecord {
	return &models.ShowRecord{
		CatalogID:    d.ID,
		Name:         d.Name,
		Overview:     d.Overview,
		PosterPath:   optStr(d.PosterPath),
		BackdropPath: optStr(d.BackdropPath),
		SeasonCount:  d.SeasonCount,
		EpisodeCount: d.EpisodeCount,
		Genres:       d.Genres,
		Status:       d.Status,
		Rating:       optFloat(d.VoteAverage),
	}
}

func buildSeasonRecord(seriesID, seasonNumber int, d *catalog.SeasonDetails) *models.SeasonRecord {
	return &models.SeasonRecord{
		SeriesID:     seriesID,
		SeasonNumber: seasonNumber,
		Name:         d.Name,
		Overview:     d.Overview,
		PosterPath:   optStr(d.PosterPath),
		EpisodeCount: len(d.Episodes),
	}
}

func buildEpisodeRecord(fileID uuid.UUID, seriesID, seasonNumber int, d *catalog.EpisodeDetails) *models.EpisodeRecord {
	return &models.EpisodeRecord{
		FileID:        fileID,
		SeriesID:      seriesID,
		SeasonNumber:  seasonNumber,
		EpisodeNumber: d.EpisodeNumber,
		Name:          d.Name,
		Overview:      d.Overview,
		StillPath:     optStr(d.StillPath),
		AirDate:       optStr(d.AirDate),
		Runtime:       optInt(d.Runtime),
		Rating:        optFloat(d.VoteAverage),
		MatchStatus:   models.MatchStatusMatched,
	}
}

// ──────────────────── Cache Reads ────────────────────

// CachedMovie returns the cached record for a file, memory then store;
// the network is never consulted.
func (r *Resolver) CachedMovie(fileID uuid.UUID) (*models.MovieRecord, bool) {
	r.mu.RLock()
	rec, ok := r.movies[fileID]
	r.mu.RUnlock()
	if ok {
		return rec, true
	}
	stored, err := r.movieStore.Get(fileID.String())
	if err != nil || stored == nil {
		return nil, false
	}
	return stored, true
}

// CachedEpisode mirrors CachedMovie for episode files.
func (r *Resolver) CachedEpisode(fileID uuid.UUID) (*models.EpisodeRecord, bool) {
	r.mu.RLock()
	rec, ok := r.episodes[fileID]
	r.mu.RUnlock()
	if ok {
		return rec, true
	}
	stored, err := r.episodeStore.Get(fileID.String())
	if err != nil || stored == nil {
		return nil, false
	}
	return stored, true
}

// CachedShow returns the cached show record for a catalog ID.
func (r *Resolver) CachedShow(catalogID int) (*models.ShowRecord, bool) {
	return r.lookupShow(catalogID)
}

// AllCachedShows lists every cached show, sorted by name.
func (r *Resolver) AllCachedShows() []*models.ShowRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.ShowRecord, 0, len(r.shows))
	for _, s := range r.shows {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// EpisodesForShow lists cached episode records belonging to a show,
// sorted by season and episode number.
func (r *Resolver) EpisodesForShow(catalogID int) []*models.EpisodeRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.EpisodeRecord
	for _, e := range r.episodes {
		if e.SeriesID == catalogID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeasonNumber != out[j].SeasonNumber {
			return out[i].SeasonNumber < out[j].SeasonNumber
		}
		return out[i].EpisodeNumber < out[j].EpisodeNumber
	})
	return out
}

// SeasonsForShow lists cached season records for a show, sorted by number.
func (r *Resolver) SeasonsForShow(catalogID int) []*models.SeasonRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.SeasonRecord
	for _, s := range r.seasons {
		if s.SeriesID == catalogID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeasonNumber < out[j].SeasonNumber })
	return out
}

// ──────────────────── Batch Resolution ────────────────────

// ResolveBatch resolves a set of files in order, pacing remote work at one
// item per batch delay. Files already cached are skipped without a progress
// callback; onProgress receives (completed-this-run, total). Without an API
// key the whole call is a no-op.
func (r *Resolver) ResolveBatch(ctx context.Context, files []models.MediaFile, onProgress func(completed, total int)) error {
	if !r.keys.HasKey() {
		log.Printf("[resolver] batch skipped: no API key configured")
		return nil
	}

	limiter := rate.NewLimiter(rate.Every(r.batchDelay), 1)
	total := len(files)
	completed := 0

	for _, f := range files {
		if r.isFileCached(f) {
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		if parse.IsTVShow(f.Filename) {
			if _, err := r.ResolveEpisode(ctx, f.ID, f.Filename, false); err != nil {
				log.Printf("[resolver] batch: episode %q: %v", f.Filename, err)
			}
		} else {
			if _, err := r.ResolveMovie(ctx, f.ID, f.Filename, false); err != nil {
				log.Printf("[resolver] batch: movie %q: %v", f.Filename, err)
			}
		}

		completed++
		if onProgress != nil {
			onProgress(completed, total)
		}
	}
	return nil
}

func (r *Resolver) isFileCached(f models.MediaFile) bool {
	r.mu.RLock()
	_, inMovies := r.movies[f.ID]
	_, inEpisodes := r.episodes[f.ID]
	r.mu.RUnlock()
	if inMovies || inEpisodes {
		return true
	}
	key := f.ID.String()
	return r.movieStore.Exists(key) || r.episodeStore.Exists(key)
}

// ──────────────────── Invalidation ────────────────────

// InvalidateFile drops a single file's cached metadata and every artwork
// variant owned by it. The next resolve for the file goes remote again.
func (r *Resolver) InvalidateFile(fileID uuid.UUID) error {
	key := fileID.String()
	if err := r.movieStore.Delete(key); err != nil {
		return err
	}
	if err := r.episodeStore.Delete(key); err != nil {
		return err
	}
	if err := r.artwork.DeleteAll(key); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.movies, fileID)
	delete(r.episodes, fileID)
	r.mu.Unlock()
	return nil
}

// ClearCache deletes every store document, every artwork blob, and empties
// the memory maps. This is a deliberate administrative action, so failures
// are returned loudly instead of being swallowed.
func (r *Resolver) ClearCache() error {
	if err := r.movieStore.DeleteAll(); err != nil {
		return catalog.WrapError(catalog.KindStorage, err)
	}
	if err := r.episodeStore.DeleteAll(); err != nil {
		return catalog.WrapError(catalog.KindStorage, err)
	}
	if err := r.showStore.DeleteAll(); err != nil {
		return catalog.WrapError(catalog.KindStorage, err)
	}
	if err := r.seasonStore.DeleteAll(); err != nil {
		return catalog.WrapError(catalog.KindStorage, err)
	}
	if err := r.artwork.DeleteEverything(); err != nil {
		return catalog.WrapError(catalog.KindCache, err)
	}

	r.mu.Lock()
	r.movies = make(map[uuid.UUID]*models.MovieRecord)
	r.episodes = make(map[uuid.UUID]*models.EpisodeRecord)
	r.shows = make(map[int]*models.ShowRecord)
	r.seasons = make(map[string]*models.SeasonRecord)
	r.mu.Unlock()

	log.Printf("[resolver] cache cleared")
	return nil
}

// CacheStats is a point-in-time census of both cache tiers.
type CacheStats struct {
	Movies       int   `json:"movies"`
	Episodes     int   `json:"episodes"`
	Shows        int   `json:"shows"`
	Seasons      int   `json:"seasons"`
	ArtworkBytes int64 `json:"artwork_bytes"`
}

// Stats counts the in-memory records and sizes the artwork tree.
func (r *Resolver) Stats() CacheStats {
	r.mu.RLock()
	stats := CacheStats{
		Movies:   len(r.movies),
		Episodes: len(r.episodes),
		Shows:    len(r.shows),
		Seasons:  len(r.seasons),
	}
	r.mu.RUnlock()

	if size, err := r.artwork.TotalSizeBytes(); err == nil {
		stats.ArtworkBytes = size
	}
	return stats
}

// ──────────────────── Pass-throughs ────────────────────

// ConfigureAPIKey stores the catalog API key.
func (r *Resolver) ConfigureAPIKey(key string) error { return r.keys.Store(key) }

// RemoveAPIKey deletes the catalog API key.
func (r *Resolver) RemoveAPIKey() error { return r.keys.Delete() }

// HasAPIKey reports whether resolution is possible at all.
func (r *Resolver) HasAPIKey() bool { return r.keys.HasKey() }

// ArtworkLocalPath exposes the artwork cache's existence check.
func (r *Resolver) ArtworkLocalPath(ownerID string, kind models.ArtworkKind, variant models.ArtworkVariant) (string, bool) {
	return r.artwork.LocalPath(ownerID, kind, variant)
}

// ArtworkSizeBytes returns the total artwork cache size.
func (r *Resolver) ArtworkSizeBytes() (int64, error) { return r.artwork.TotalSizeBytes() }

// ArtworkSizeHuman returns the artwork cache size for display.
func (r *Resolver) ArtworkSizeHuman() string { return r.artwork.HumanReadableSize() }

// WaitBackground blocks until all in-flight background artwork downloads
// finish. Intended for tests and orderly shutdown.
func (r *Resolver) WaitBackground() { r.bg.Wait() }

// ──────────────────── Internals ────────────────────

func (r *Resolver) lookupMovie(fileID uuid.UUID) (*models.MovieRecord, bool) {
	r.mu.RLock()
	rec, ok := r.movies[fileID]
	r.mu.RUnlock()
	if ok {
		return rec, true
	}

	stored, err := r.movieStore.Get(fileID.String())
	if err != nil || stored == nil {
		return nil, false
	}
	r.mu.Lock()
	r.movies[fileID] = stored
	r.mu.Unlock()
	return stored, true
}

func (r *Resolver) lookupEpisode(fileID uuid.UUID) (*models.EpisodeRecord, bool) {
	r.mu.RLock()
	rec, ok := r.episodes[fileID]
	r.mu.RUnlock()
	if ok {
		return rec, true
	}

	stored, err := r.episodeStore.Get(fileID.String())
	if err != nil || stored == nil {
		return nil, false
	}
	r.mu.Lock()
	r.episodes[fileID] = stored
	r.mu.Unlock()
	return stored, true
}

func (r *Resolver) lookupShow(catalogID int) (*models.ShowRecord, bool) {
	r.mu.RLock()
	rec, ok := r.shows[catalogID]
	r.mu.RUnlock()
	if ok {
		return rec, true
	}

	stored, err := r.showStore.Get(strconv.Itoa(catalogID))
	if err != nil || stored == nil {
		return nil, false
	}
	r.mu.Lock()
	r.shows[catalogID] = stored
	r.mu.Unlock()
	return stored, true
}

// putMovie writes a record to memory and store. bestEffort write failures
// (negative results) are logged and dropped.
func (r *Resolver) putMovie(rec *models.MovieRecord, bestEffort bool) error {
	r.mu.Lock()
	r.movies[rec.FileID] = rec
	r.mu.Unlock()

	if err := r.movieStore.Put(rec.FileID.String(), rec); err != nil {
		if bestEffort {
			log.Printf("[resolver] dropped best-effort movie write: %v", err)
			return nil
		}
		return err
	}
	return nil
}

func (r *Resolver) putEpisode(rec *models.EpisodeRecord, bestEffort bool) error {
	r.mu.Lock()
	r.episodes[rec.FileID] = rec
	r.mu.Unlock()

	if err := r.episodeStore.Put(rec.FileID.String(), rec); err != nil {
		if bestEffort {
			log.Printf("[resolver] dropped best-effort episode write: %v", err)
			return nil
		}
		return err
	}
	return nil
}

func (r *Resolver) putShow(rec *models.ShowRecord) error {
	r.mu.Lock()
	r.shows[rec.CatalogID] = rec
	r.mu.Unlock()
	return r.showStore.Put(strconv.Itoa(rec.CatalogID), rec)
}

func (r *Resolver) putSeason(rec *models.SeasonRecord) error {
	key := models.SeasonKey(rec.SeriesID, rec.SeasonNumber)
	r.mu.Lock()
	r.seasons[key] = rec
	r.mu.Unlock()
	return r.seasonStore.Put(key, rec)
}

// cacheArtworkAsync spawns a detached, best-effort artwork download. The
// resolve that triggered it never waits on, or learns about, the outcome.
func (r *Resolver) cacheArtworkAsync(ownerID string, kind models.ArtworkKind, remotePath string, variant models.ArtworkVariant) {
	if r.downloader == nil || remotePath == "" {
		return
	}
	r.bg.Add(1)
	go func() {
		defer r.bg.Done()
		err := r.downloader.Fetch(remotePath, ownerID, kind, variant)
		if err != nil {
			log.Printf("[resolver] background artwork %s/%s: %v", kind, ownerID, err)
		}
		if r.OnArtworkCached != nil {
			r.OnArtworkCached(ownerID, kind, err)
		}
	}()
}

// ──────────────────── Optional-field helpers ────────────────────

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func optFloat(f float64) *float64 {
	if f == 0 {
		return nil
	}
	return &f
}

func yearOf(date string) *int {
	if len(date) < 4 {
		return nil
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y == 0 {
		return nil
	}
	return &y
}
