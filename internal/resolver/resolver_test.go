package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/artwork"
	"github.com/mediashelf/mediashelf/internal/catalog"
	"github.com/mediashelf/mediashelf/internal/keystore"
	"github.com/mediashelf/mediashelf/internal/models"
)

// ──────────────────── Fake provider ────────────────────

type fakeProvider struct {
	mu sync.Mutex

	searchMovieCalls  int
	movieDetailCalls  int
	searchShowCalls   int
	showDetailCalls   int
	seasonDetailCalls int

	movieCandidates []models.SearchCandidate
	movie           *catalog.MovieDetails
	showCandidates  []models.SearchCandidate
	show            *catalog.ShowDetails
	season          *catalog.SeasonDetails
	err             error
}

func (f *fakeProvider) SearchMovies(ctx context.Context, title string, year *int) ([]models.SearchCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchMovieCalls++
	return f.movieCandidates, f.err
}

func (f *fakeProvider) MovieDetails(ctx context.Context, catalogID int) (*catalog.MovieDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movieDetailCalls++
	return f.movie, f.err
}

func (f *fakeProvider) SearchShows(ctx context.Context, name string) ([]models.SearchCandidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchShowCalls++
	return f.showCandidates, f.err
}

func (f *fakeProvider) ShowDetails(ctx context.Context, catalogID int) (*catalog.ShowDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showDetailCalls++
	return f.show, f.err
}

func (f *fakeProvider) SeasonDetails(ctx context.Context, seriesID, seasonNumber int) (*catalog.SeasonDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seasonDetailCalls++
	return f.season, f.err
}

func matrixProvider() *fakeProvider {
	return &fakeProvider{
		movieCandidates: []models.SearchCandidate{
			{CatalogID: 603, Name: "The Matrix", Year: intPtr(1999)},
		},
		movie: &catalog.MovieDetails{
			ID:          603,
			Title:       "The Matrix",
			Overview:    "A hacker learns the truth.",
			PosterPath:  "/matrix.jpg",
			ReleaseDate: "1999-03-31",
			Runtime:     136,
			Genres:      []string{"Action"},
			VoteAverage: 8.2,
		},
	}
}

func breakingBadProvider() *fakeProvider {
	return &fakeProvider{
		showCandidates: []models.SearchCandidate{
			{CatalogID: 1396, Name: "Breaking Bad", Year: intPtr(2008)},
		},
		show: &catalog.ShowDetails{
			ID:          1396,
			Name:        "Breaking Bad",
			Overview:    "A chemistry teacher.",
			PosterPath:  "/bb.jpg",
			SeasonCount: 5,
			Status:      "Ended",
		},
		season: &catalog.SeasonDetails{
			Name: "Season 1",
			Episodes: []catalog.EpisodeDetails{
				{EpisodeNumber: 1, Name: "Pilot", StillPath: "/e1.jpg", AirDate: "2008-01-20", Runtime: 58},
				{EpisodeNumber: 2, Name: "Cat's in the Bag...", Runtime: 48},
			},
		},
	}
}

// ──────────────────── Fixtures ────────────────────

type fixture struct {
	resolver *Resolver
	provider *fakeProvider
	dataDir  string
}

func newFixture(t *testing.T, provider *fakeProvider, apiKey string) *fixture {
	t.Helper()
	dir := t.TempDir()
	return reopenFixture(t, provider, apiKey, dir)
}

func reopenFixture(t *testing.T, provider *fakeProvider, apiKey string, dataDir string) *fixture {
	t.Helper()

	cache, err := artwork.NewCache(filepath.Join(dataDir, "artwork"))
	require.NoError(t, err)

	r, err := New(Config{
		DataDir:    dataDir,
		Provider:   provider,
		Keys:       keystore.NewMemStore(apiKey),
		Artwork:    cache,
		BatchDelay: time.Millisecond,
	})
	require.NoError(t, err)

	return &fixture{resolver: r, provider: provider, dataDir: dataDir}
}

// ──────────────────── Movie resolution ────────────────────

func TestResolveMovieFirstTimeGoesRemote(t *testing.T) {
	f := newFixture(t, matrixProvider(), "key")
	fileID := uuid.New()

	rec, err := f.resolver.ResolveMovie(context.Background(), fileID, "The.Matrix.1999.1080p.BluRay.mkv", false)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.True(t, rec.Matched())
	assert.Equal(t, "The Matrix", rec.Title)
	require.NotNil(t, rec.CatalogID)
	assert.Equal(t, 603, *rec.CatalogID)
	require.NotNil(t, rec.Year)
	assert.Equal(t, 1999, *rec.Year)

	assert.Equal(t, 1, f.provider.searchMovieCalls)
	assert.Equal(t, 1, f.provider.movieDetailCalls)
}

func TestResolveMovieSecondTimeIsFree(t *testing.T) {
	f := newFixture(t, matrixProvider(), "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	rec, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)
	assert.True(t, rec.Matched())

	assert.Equal(t, 1, f.provider.searchMovieCalls, "cache hit must not search")
	assert.Equal(t, 1, f.provider.movieDetailCalls, "cache hit must not fetch details")
}

func TestResolveMovieForceRefreshGoesRemoteAgain(t *testing.T) {
	f := newFixture(t, matrixProvider(), "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	_, err = f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", true)
	require.NoError(t, err)

	assert.Equal(t, 2, f.provider.searchMovieCalls)
	assert.Equal(t, 2, f.provider.movieDetailCalls)
}

func TestResolveMovieWithoutKeyShortCircuits(t *testing.T) {
	f := newFixture(t, matrixProvider(), "")

	_, err := f.resolver.ResolveMovie(context.Background(), uuid.New(), "The.Matrix.1999.mkv", false)
	require.Error(t, err)
	assert.Equal(t, catalog.KindAPIKeyNotConfigured, catalog.KindOf(err))
	assert.Equal(t, 0, f.provider.searchMovieCalls)
}

func TestResolveMovieCacheHitWorksWithoutKey(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	// Key removed: the cached record must still come back.
	require.NoError(t, f.resolver.RemoveAPIKey())

	rec, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)
	assert.True(t, rec.Matched())
}

func TestResolveMovieNoCandidatesCachesNegativeResult(t *testing.T) {
	provider := &fakeProvider{} // empty search results
	f := newFixture(t, provider, "key")
	fileID := uuid.New()
	ctx := context.Background()

	rec, err := f.resolver.ResolveMovie(ctx, fileID, "Obscure.Home.Video.2019.mkv", false)
	require.NoError(t, err, "an unmatched outcome is not an error")
	require.NotNil(t, rec)
	assert.Equal(t, models.MatchStatusUnmatched, rec.MatchStatus)
	assert.False(t, rec.Matched())
	assert.Equal(t, "Obscure Home Video", rec.Title)

	// The negative result is served from cache on the next ask.
	_, err = f.resolver.ResolveMovie(ctx, fileID, "Obscure.Home.Video.2019.mkv", false)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.searchMovieCalls)
}

func TestResolveMovieSurvivesRestart(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	// A fresh resolver over the same data dir loads the store tier.
	reopened := reopenFixture(t, provider, "key", f.dataDir)
	rec, err := reopened.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)
	assert.True(t, rec.Matched())
	assert.Equal(t, 1, provider.searchMovieCalls, "restart must not cost a remote call")
}

func TestResolveMovieRemoteErrorIsPropagated(t *testing.T) {
	provider := &fakeProvider{err: catalog.NewError(catalog.KindRateLimited, "slow down")}
	f := newFixture(t, provider, "key")

	_, err := f.resolver.ResolveMovie(context.Background(), uuid.New(), "The.Matrix.1999.mkv", false)
	require.Error(t, err)
	assert.Equal(t, catalog.KindRateLimited, catalog.KindOf(err))

	// Failures are not cached: the next attempt retries the remote.
	_, err = f.resolver.ResolveMovie(context.Background(), uuid.New(), "The.Matrix.1999.mkv", false)
	require.Error(t, err)
	assert.Equal(t, 2, provider.searchMovieCalls)
}

// ──────────────────── Episode resolution ────────────────────

func TestResolveEpisodeFullFlow(t *testing.T) {
	f := newFixture(t, breakingBadProvider(), "key")
	fileID := uuid.New()

	rec, err := f.resolver.ResolveEpisode(context.Background(), fileID, "Breaking.Bad.S01E01.720p.mkv", false)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.True(t, rec.Matched())
	assert.Equal(t, 1396, rec.SeriesID)
	assert.Equal(t, 1, rec.SeasonNumber)
	assert.Equal(t, 1, rec.EpisodeNumber)
	assert.Equal(t, "Pilot", rec.Name)

	assert.Equal(t, 1, f.provider.searchShowCalls)
	assert.Equal(t, 1, f.provider.showDetailCalls)
	assert.Equal(t, 1, f.provider.seasonDetailCalls)

	// Show and season records landed in the shared caches.
	show, ok := f.resolver.CachedShow(1396)
	require.True(t, ok)
	assert.Equal(t, "Breaking Bad", show.Name)

	seasons := f.resolver.SeasonsForShow(1396)
	require.Len(t, seasons, 1)
	assert.Equal(t, 1, seasons[0].SeasonNumber)
	assert.Equal(t, 2, seasons[0].EpisodeCount)
}

func TestResolveEpisodeShowDetailsFetchedOnce(t *testing.T) {
	f := newFixture(t, breakingBadProvider(), "key")
	ctx := context.Background()

	_, err := f.resolver.ResolveEpisode(ctx, uuid.New(), "Breaking.Bad.S01E01.mkv", false)
	require.NoError(t, err)

	_, err = f.resolver.ResolveEpisode(ctx, uuid.New(), "Breaking.Bad.S01E02.mkv", false)
	require.NoError(t, err)

	assert.Equal(t, 2, f.provider.searchShowCalls)
	assert.Equal(t, 1, f.provider.showDetailCalls, "show details are shared across files")
	assert.Equal(t, 2, f.provider.seasonDetailCalls, "seasons are always refetched")
}

func TestResolveEpisodeSecondTimeIsFree(t *testing.T) {
	f := newFixture(t, breakingBadProvider(), "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveEpisode(ctx, fileID, "Breaking.Bad.S01E01.mkv", false)
	require.NoError(t, err)

	_, err = f.resolver.ResolveEpisode(ctx, fileID, "Breaking.Bad.S01E01.mkv", false)
	require.NoError(t, err)

	assert.Equal(t, 1, f.provider.searchShowCalls)
	assert.Equal(t, 1, f.provider.seasonDetailCalls)
}

func TestResolveEpisodeUnparseableNameFails(t *testing.T) {
	f := newFixture(t, breakingBadProvider(), "key")

	_, err := f.resolver.ResolveEpisode(context.Background(), uuid.New(), "definitely-not-an-episode.mkv", false)
	require.Error(t, err)
	assert.Equal(t, catalog.KindParsing, catalog.KindOf(err))
	assert.Equal(t, 0, f.provider.searchShowCalls, "parse failures never reach the network")
}

func TestResolveEpisodeMissingFromSeasonIsUnmatched(t *testing.T) {
	f := newFixture(t, breakingBadProvider(), "key")

	// Season 1 of the fixture has two episodes; ask for episode 9.
	rec, err := f.resolver.ResolveEpisode(context.Background(), uuid.New(), "Breaking.Bad.S01E09.mkv", false)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.MatchStatusUnmatched, rec.MatchStatus)
}

func TestResolveEpisodeNoShowCandidatesIsUnmatched(t *testing.T) {
	provider := &fakeProvider{}
	f := newFixture(t, provider, "key")
	fileID := uuid.New()
	ctx := context.Background()

	rec, err := f.resolver.ResolveEpisode(ctx, fileID, "Unknown.Show.S01E01.mkv", false)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusUnmatched, rec.MatchStatus)

	// Negative result cached: no second search.
	_, err = f.resolver.ResolveEpisode(ctx, fileID, "Unknown.Show.S01E01.mkv", false)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.searchShowCalls)
}

func TestEpisodesForShowSorted(t *testing.T) {
	f := newFixture(t, breakingBadProvider(), "key")
	ctx := context.Background()

	_, err := f.resolver.ResolveEpisode(ctx, uuid.New(), "Breaking.Bad.S01E02.mkv", false)
	require.NoError(t, err)
	_, err = f.resolver.ResolveEpisode(ctx, uuid.New(), "Breaking.Bad.S01E01.mkv", false)
	require.NoError(t, err)

	eps := f.resolver.EpisodesForShow(1396)
	require.Len(t, eps, 2)
	assert.Equal(t, 1, eps[0].EpisodeNumber)
	assert.Equal(t, 2, eps[1].EpisodeNumber)
}

// ──────────────────── Artwork ────────────────────

func TestResolveMovieCachesPosterInBackground(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("poster bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	cache, err := artwork.NewCache(filepath.Join(dir, "artwork"))
	require.NoError(t, err)

	r, err := New(Config{
		DataDir:    dir,
		Provider:   matrixProvider(),
		Keys:       keystore.NewMemStore("key"),
		Artwork:    cache,
		Downloader: artwork.NewDownloader(cache, srv.URL),
		BatchDelay: time.Millisecond,
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	r.OnArtworkCached = func(ownerID string, kind models.ArtworkKind, err error) {
		done <- err
	}

	fileID := uuid.New()
	_, err = r.ResolveMovie(context.Background(), fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("artwork download never completed")
	}

	path, ok := r.ArtworkLocalPath(fileID.String(), models.ArtworkPoster, models.VariantDetail)
	assert.True(t, ok)
	assert.NotEmpty(t, path)
}

// ──────────────────── Batch ────────────────────

func TestResolveBatchSkipsCachedWithoutProgress(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "key")
	ctx := context.Background()

	cached := models.MediaFile{ID: uuid.New(), Filename: "The.Matrix.1999.mkv"}
	_, err := f.resolver.ResolveMovie(ctx, cached.ID, cached.Filename, false)
	require.NoError(t, err)

	files := []models.MediaFile{
		cached,
		{ID: uuid.New(), Filename: "The.Matrix.Reloaded.2003.mkv"},
		{ID: uuid.New(), Filename: "The.Matrix.Revolutions.2003.mkv"},
	}

	var progress [][2]int
	err = f.resolver.ResolveBatch(ctx, files, func(completed, total int) {
		progress = append(progress, [2]int{completed, total})
	})
	require.NoError(t, err)

	// The cached file is skipped silently; two resolves report progress.
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}}, progress)
	assert.Equal(t, 3, provider.searchMovieCalls)
}

func TestResolveBatchRoutesByFilename(t *testing.T) {
	provider := breakingBadProvider()
	provider.movieCandidates = matrixProvider().movieCandidates
	provider.movie = matrixProvider().movie

	f := newFixture(t, provider, "key")

	files := []models.MediaFile{
		{ID: uuid.New(), Filename: "The.Matrix.1999.mkv"},
		{ID: uuid.New(), Filename: "Breaking.Bad.S01E01.mkv"},
	}

	err := f.resolver.ResolveBatch(context.Background(), files, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.searchMovieCalls)
	assert.Equal(t, 1, provider.searchShowCalls)
}

func TestResolveBatchWithoutKeyIsNoOp(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "")

	files := []models.MediaFile{{ID: uuid.New(), Filename: "The.Matrix.1999.mkv"}}

	var calls int
	err := f.resolver.ResolveBatch(context.Background(), files, func(int, int) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, provider.searchMovieCalls)
}

func TestResolveBatchContinuesPastFailures(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "key")

	files := []models.MediaFile{
		// The episode name parses but finds no show candidates: unmatched, not fatal.
		{ID: uuid.New(), Filename: "Unknown.Show.S01E01.mkv"},
		{ID: uuid.New(), Filename: "The.Matrix.1999.mkv"},
	}

	err := f.resolver.ResolveBatch(context.Background(), files, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.searchMovieCalls, "later files resolve despite earlier misses")
}

// ──────────────────── Invalidation ────────────────────

func TestInvalidateFileForcesRemoteResolve(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	require.NoError(t, f.resolver.InvalidateFile(fileID))

	_, ok := f.resolver.CachedMovie(fileID)
	assert.False(t, ok)

	_, err = f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.searchMovieCalls)
}

func TestClearCacheEmptiesEverything(t *testing.T) {
	provider := matrixProvider()
	f := newFixture(t, provider, "key")
	fileID := uuid.New()
	ctx := context.Background()

	_, err := f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)

	require.NoError(t, f.resolver.ClearCache())

	_, ok := f.resolver.CachedMovie(fileID)
	assert.False(t, ok)

	size, err := f.resolver.ArtworkSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)

	// The store tier is empty too: resolving again goes remote.
	_, err = f.resolver.ResolveMovie(ctx, fileID, "The.Matrix.1999.mkv", false)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.searchMovieCalls)
}
