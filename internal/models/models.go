package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ──────────────────── Enums ────────────────────

// MatchStatus records the outcome of a metadata resolution attempt.
// An unmatched record is an explicit negative result: we asked the catalog
// and found nothing, which is distinct from never having asked at all.
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusUnmatched MatchStatus = "unmatched"
)

// ArtworkKind partitions the artwork cache by image purpose.
type ArtworkKind string

const (
	ArtworkPoster   ArtworkKind = "poster"
	ArtworkBackdrop ArtworkKind = "backdrop"
	ArtworkStill    ArtworkKind = "still"
)

// ArtworkVariant is a named size option for a cached image.
type ArtworkVariant string

const (
	VariantThumb  ArtworkVariant = "w342"
	VariantDetail ArtworkVariant = "w780"
	VariantFull   ArtworkVariant = "original"
)

// ──────────────────── Search ────────────────────

// SearchCandidate is one row of a remote catalog search response.
// Candidates arrive pre-sorted by relevance, so position matters.
type SearchCandidate struct {
	CatalogID int    `json:"catalog_id"`
	Name      string `json:"name"`
	Year      *int   `json:"year,omitempty"`
}

// ──────────────────── Movie ────────────────────

// MovieRecord is the persisted resolution result for a movie file,
// keyed by the owning file's ID. CatalogID is nil exactly when
// MatchStatus is unmatched.
type MovieRecord struct {
	FileID        uuid.UUID   `json:"file_id"`
	CatalogID     *int        `json:"catalog_id,omitempty"`
	Title         string      `json:"title"`
	OriginalTitle *string     `json:"original_title,omitempty"`
	Year          *int        `json:"year,omitempty"`
	ReleaseDate   *string     `json:"release_date,omitempty"`
	Runtime       *int        `json:"runtime,omitempty"` // minutes
	Genres        []string    `json:"genres,omitempty"`
	Synopsis      *string     `json:"synopsis,omitempty"`
	PosterPath    *string     `json:"poster_path,omitempty"`
	BackdropPath  *string     `json:"backdrop_path,omitempty"`
	Rating        *float64    `json:"rating,omitempty"`
	MatchStatus   MatchStatus `json:"match_status"`
}

// Matched reports whether this record carries a real catalog identity.
func (m *MovieRecord) Matched() bool {
	return m.MatchStatus == MatchStatusMatched && m.CatalogID != nil
}

// UnmatchedMovie builds the negative-result record persisted when a
// search for the file produced no usable candidate.
func UnmatchedMovie(fileID uuid.UUID, title string, year *int) *MovieRecord {
	return &MovieRecord{
		FileID:      fileID,
		Title:       title,
		Year:        year,
		MatchStatus: MatchStatusUnmatched,
	}
}

// ──────────────────── TV ────────────────────

// ShowRecord is keyed by the catalog's show ID and shared across every
// file belonging to that show.
type ShowRecord struct {
	CatalogID    int      `json:"catalog_id"`
	Name         string   `json:"name"`
	Overview     string   `json:"overview,omitempty"`
	PosterPath   *string  `json:"poster_path,omitempty"`
	BackdropPath *string  `json:"backdrop_path,omitempty"`
	SeasonCount  int      `json:"season_count"`
	EpisodeCount int      `json:"episode_count"`
	Genres       []string `json:"genres,omitempty"`
	Status       string   `json:"status,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
}

// SeasonRecord is keyed by (series catalog ID, season number).
type SeasonRecord struct {
	SeriesID     int     `json:"series_id"`
	SeasonNumber int     `json:"season_number"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview,omitempty"`
	PosterPath   *string `json:"poster_path,omitempty"`
	EpisodeCount int     `json:"episode_count"`
}

// SeasonKey builds the composite store key for a season record.
func SeasonKey(seriesID, seasonNumber int) string {
	return fmt.Sprintf("%d-s%02d", seriesID, seasonNumber)
}

// EpisodeRecord is the persisted resolution result for an episode file,
// keyed by the owning file's ID like MovieRecord.
type EpisodeRecord struct {
	FileID        uuid.UUID   `json:"file_id"`
	SeriesID      int         `json:"series_id,omitempty"`
	SeasonNumber  int         `json:"season_number,omitempty"`
	EpisodeNumber int         `json:"episode_number,omitempty"`
	Name          string      `json:"name"`
	Overview      string      `json:"overview,omitempty"`
	StillPath     *string     `json:"still_path,omitempty"`
	AirDate       *string     `json:"air_date,omitempty"`
	Runtime       *int        `json:"runtime,omitempty"` // minutes
	Rating        *float64    `json:"rating,omitempty"`
	MatchStatus   MatchStatus `json:"match_status"`
}

// Matched reports whether this record carries a real catalog identity.
func (e *EpisodeRecord) Matched() bool {
	return e.MatchStatus == MatchStatusMatched
}

// UnmatchedEpisode builds the negative-result record for an episode file.
func UnmatchedEpisode(fileID uuid.UUID, name string) *EpisodeRecord {
	return &EpisodeRecord{
		FileID:      fileID,
		Name:        name,
		MatchStatus: MatchStatusUnmatched,
	}
}

// ──────────────────── Library files ────────────────────

// MediaFile is the identity the resolver consumes: a stable ID plus the
// filename string. The core never touches the filesystem the file lives on.
type MediaFile struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
}
