// Package catalog defines the remote metadata provider contract and its
// TMDB-backed implementation. The resolver depends only on the Provider
// interface; everything HTTP-shaped stays in here.
package catalog

import (
	"context"

	"github.com/mediashelf/mediashelf/internal/models"
)

// Provider is the remote catalog call contract. Search results arrive
// pre-sorted by relevance; the match selector relies on that order.
type Provider interface {
	SearchMovies(ctx context.Context, title string, year *int) ([]models.SearchCandidate, error)
	MovieDetails(ctx context.Context, catalogID int) (*MovieDetails, error)
	SearchShows(ctx context.Context, name string) ([]models.SearchCandidate, error)
	ShowDetails(ctx context.Context, catalogID int) (*ShowDetails, error)
	SeasonDetails(ctx context.Context, seriesID, seasonNumber int) (*SeasonDetails, error)
}

// MovieDetails is the full movie payload from a details fetch.
type MovieDetails struct {
	ID            int
	Title         string
	OriginalTitle string
	Overview      string
	PosterPath    string
	BackdropPath  string
	ReleaseDate   string // yyyy-mm-dd
	Runtime       int    // minutes, 0 when unknown
	Genres        []string
	VoteAverage   float64
}

// ShowDetails is the show-level payload.
type ShowDetails struct {
	ID           int
	Name         string
	Overview     string
	PosterPath   string
	BackdropPath string
	SeasonCount  int
	EpisodeCount int
	Genres       []string
	Status       string
	VoteAverage  float64
}

// EpisodeDetails is one entry of a season's episode list.
type EpisodeDetails struct {
	EpisodeNumber int
	Name          string
	Overview      string
	StillPath     string
	AirDate       string
	Runtime       int
	VoteAverage   float64
}

// SeasonDetails is the season payload, including its episode list.
type SeasonDetails struct {
	Name       string
	Overview   string
	PosterPath string
	Episodes   []EpisodeDetails
}
