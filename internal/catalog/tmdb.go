package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"github.com/mediashelf/mediashelf/internal/keystore"
	"github.com/mediashelf/mediashelf/internal/models"
)

// DefaultBaseURL is the TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// DefaultImageBaseURL is the TMDB image CDN root artwork is fetched from.
const DefaultImageBaseURL = "https://image.tmdb.org/t/p"

// TMDBClient implements Provider against the TMDB v3 API. The API key is
// read from the key store on every call so a newly configured key takes
// effect without restarting.
type TMDBClient struct {
	baseURL string
	keys    keystore.Store
	client  *http.Client
	limiter *rate.Limiter
}

// NewTMDBClient builds a client for the given API root.
func NewTMDBClient(baseURL string, keys keystore.Store) *TMDBClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &TMDBClient{
		baseURL: baseURL,
		keys:    keys,
		client:  &http.Client{Timeout: 10 * time.Second},
		// TMDB allows ~50 req/s; stay far under it.
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// get issues one API call, retrying transient network failures, and
// decodes the 2xx body into out.
func (c *TMDBClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	key, ok := c.keys.Retrieve()
	if !ok {
		return NewError(KindAPIKeyNotConfigured, "no API key in key store")
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", key)
	reqURL := c.baseURL + path + "?" + query.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return WrapError(KindNetwork, err)
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return NewError(KindRemoteAPI, err.Error())
			}
			resp, err := c.client.Do(req)
			if err != nil {
				return WrapError(KindNetwork, err)
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusUnauthorized:
				return NewError(KindInvalidAPIKey, "catalog rejected the API key")
			case resp.StatusCode == http.StatusNotFound:
				return NewError(KindNotFoundRemote, path)
			case resp.StatusCode == http.StatusTooManyRequests:
				return NewError(KindRateLimited, "catalog rate limit hit")
			case resp.StatusCode < 200 || resp.StatusCode > 299:
				return &Error{Kind: KindRemoteAPI, StatusCode: resp.StatusCode, Detail: path}
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return NewError(KindRemoteAPI, "decode response: "+err.Error())
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Only transient transport failures are worth a retry.
			return KindOf(err) == KindNetwork
		}),
	)
}

// yearFromDate pulls the year out of a yyyy-mm-dd string, nil when absent.
func yearFromDate(date string) *int {
	if len(date) < 4 {
		return nil
	}
	y, err := strconv.Atoi(date[:4])
	if err != nil || y == 0 {
		return nil
	}
	return &y
}

// ──────────────────── Movies ────────────────────

type tmdbMovieSearch struct {
	Results []struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
	} `json:"results"`
}

func (c *TMDBClient) SearchMovies(ctx context.Context, title string, year *int) ([]models.SearchCandidate, error) {
	query := url.Values{}
	query.Set("query", title)
	if year != nil && *year > 0 {
		query.Set("year", strconv.Itoa(*year))
	}

	var result tmdbMovieSearch
	if err := c.get(ctx, "/search/movie", query, &result); err != nil {
		return nil, err
	}

	candidates := make([]models.SearchCandidate, 0, len(result.Results))
	for _, r := range result.Results {
		candidates = append(candidates, models.SearchCandidate{
			CatalogID: r.ID,
			Name:      r.Title,
			Year:      yearFromDate(r.ReleaseDate),
		})
	}
	return candidates, nil
}

func (c *TMDBClient) MovieDetails(ctx context.Context, catalogID int) (*MovieDetails, error) {
	var r struct {
		ID            int     `json:"id"`
		Title         string  `json:"title"`
		OriginalTitle string  `json:"original_title"`
		Overview      string  `json:"overview"`
		PosterPath    string  `json:"poster_path"`
		BackdropPath  string  `json:"backdrop_path"`
		ReleaseDate   string  `json:"release_date"`
		Runtime       int     `json:"runtime"`
		VoteAverage   float64 `json:"vote_average"`
		Genres        []struct {
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := c.get(ctx, "/movie/"+strconv.Itoa(catalogID), nil, &r); err != nil {
		return nil, err
	}

	var genres []string
	for _, g := range r.Genres {
		genres = append(genres, g.Name)
	}

	return &MovieDetails{
		ID:            r.ID,
		Title:         r.Title,
		OriginalTitle: r.OriginalTitle,
		Overview:      r.Overview,
		PosterPath:    r.PosterPath,
		BackdropPath:  r.BackdropPath,
		ReleaseDate:   r.ReleaseDate,
		Runtime:       r.Runtime,
		Genres:        genres,
		VoteAverage:   r.VoteAverage,
	}, nil
}

// ──────────────────── TV ────────────────────

type tmdbShowSearch struct {
	Results []struct {
		ID           int    `json:"id"`
		Name         string `json:"name"`
		FirstAirDate string `json:"first_air_date"`
	} `json:"results"`
}

func (c *TMDBClient) SearchShows(ctx context.Context, name string) ([]models.SearchCandidate, error) {
	query := url.Values{}
	query.Set("query", name)

	var result tmdbShowSearch
	if err := c.get(ctx, "/search/tv", query, &result); err != nil {
		return nil, err
	}

	candidates := make([]models.SearchCandidate, 0, len(result.Results))
	for _, r := range result.Results {
		candidates = append(candidates, models.SearchCandidate{
			CatalogID: r.ID,
			Name:      r.Name,
			Year:      yearFromDate(r.FirstAirDate),
		})
	}
	return candidates, nil
}

func (c *TMDBClient) ShowDetails(ctx context.Context, catalogID int) (*ShowDetails, error) {
	var r struct {
		ID               int     `json:"id"`
		Name             string  `json:"name"`
		Overview         string  `json:"overview"`
		PosterPath       string  `json:"poster_path"`
		BackdropPath     string  `json:"backdrop_path"`
		NumberOfSeasons  int     `json:"number_of_seasons"`
		NumberOfEpisodes int     `json:"number_of_episodes"`
		Status           string  `json:"status"`
		VoteAverage      float64 `json:"vote_average"`
		Genres           []struct {
			Name string `json:"name"`
		} `json:"genres"`
	}
	if err := c.get(ctx, "/tv/"+strconv.Itoa(catalogID), nil, &r); err != nil {
		return nil, err
	}

	var genres []string
	for _, g := range r.Genres {
		genres = append(genres, g.Name)
	}

	return &ShowDetails{
		ID:           r.ID,
		Name:         r.Name,
		Overview:     r.Overview,
		PosterPath:   r.PosterPath,
		BackdropPath: r.BackdropPath,
		SeasonCount:  r.NumberOfSeasons,
		EpisodeCount: r.NumberOfEpisodes,
		Genres:       genres,
		Status:       r.Status,
		VoteAverage:  r.VoteAverage,
	}, nil
}

func (c *TMDBClient) SeasonDetails(ctx context.Context, seriesID, seasonNumber int) (*SeasonDetails, error) {
	var r struct {
		Name       string `json:"name"`
		Overview   string `json:"overview"`
		PosterPath string `json:"poster_path"`
		Episodes   []struct {
			EpisodeNumber int     `json:"episode_number"`
			Name          string  `json:"name"`
			Overview      string  `json:"overview"`
			StillPath     string  `json:"still_path"`
			AirDate       string  `json:"air_date"`
			Runtime       int     `json:"runtime"`
			VoteAverage   float64 `json:"vote_average"`
		} `json:"episodes"`
	}
	path := fmt.Sprintf("/tv/%d/season/%d", seriesID, seasonNumber)
	if err := c.get(ctx, path, nil, &r); err != nil {
		return nil, err
	}

	season := &SeasonDetails{
		Name:       r.Name,
		Overview:   r.Overview,
		PosterPath: r.PosterPath,
	}
	for _, e := range r.Episodes {
		season.Episodes = append(season.Episodes, EpisodeDetails{
			EpisodeNumber: e.EpisodeNumber,
			Name:          e.Name,
			Overview:      e.Overview,
			StillPath:     e.StillPath,
			AirDate:       e.AirDate,
			Runtime:       e.Runtime,
			VoteAverage:   e.VoteAverage,
		})
	}
	return season, nil
}
