package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/parse"
)

func intPtr(n int) *int { return &n }

func candidates(years ...interface{}) []models.SearchCandidate {
	out := make([]models.SearchCandidate, 0, len(years))
	for i, y := range years {
		c := models.SearchCandidate{CatalogID: i + 1, Name: "Candidate"}
		if yr, ok := y.(int); ok {
			c.Year = intPtr(yr)
		}
		out = append(out, c)
	}
	return out
}

func TestSelectMovieExactYearWins(t *testing.T) {
	hint := parse.MovieHint{Title: "Candidate", Year: intPtr(2010)}

	// Exact match wins regardless of position.
	got := SelectMovie(candidates(2015, 2008, 2010), hint)
	require.NotNil(t, got)
	assert.Equal(t, 2010, *got.Year)

	got = SelectMovie(candidates(2010, 2015, 2008), hint)
	require.NotNil(t, got)
	assert.Equal(t, 2010, *got.Year)
}

func TestSelectMovieNearYearFallback(t *testing.T) {
	hint := parse.MovieHint{Title: "Candidate", Year: intPtr(2010)}

	// No exact 2010: the first candidate within one year wins.
	got := SelectMovie(candidates(2015, 2009, 2011), hint)
	require.NotNil(t, got)
	assert.Equal(t, 2009, *got.Year)
}

func TestSelectMovieFirstCandidateFallbacks(t *testing.T) {
	hintWithYear := parse.MovieHint{Title: "Candidate", Year: intPtr(2010)}

	// Nothing near the hint year: positional order decides.
	got := SelectMovie(candidates(1990, 2020), hintWithYear)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.CatalogID)

	// No year hint at all: positional order decides.
	got = SelectMovie(candidates(1990, 2020), parse.MovieHint{Title: "Candidate"})
	require.NotNil(t, got)
	assert.Equal(t, 1, got.CatalogID)

	// Candidates without years are skipped by the year passes.
	got = SelectMovie(candidates(nil, 2010), hintWithYear)
	require.NotNil(t, got)
	assert.Equal(t, 2, got.CatalogID)
}

func TestSelectMovieEmpty(t *testing.T) {
	assert.Nil(t, SelectMovie(nil, parse.MovieHint{Title: "Anything"}))
}

func TestSelectShowNormalizedNameMatch(t *testing.T) {
	cands := []models.SearchCandidate{
		{CatalogID: 1, Name: "Mr. Robot: Origins"},
		{CatalogID: 2, Name: "Mr. Robot"},
	}

	got := SelectShow(cands, parse.TVHint{ShowName: "mr robot"})
	require.NotNil(t, got)
	assert.Equal(t, 2, got.CatalogID)
}

func TestSelectShowFirstCandidateFallback(t *testing.T) {
	cands := []models.SearchCandidate{
		{CatalogID: 7, Name: "Completely Different"},
		{CatalogID: 8, Name: "Also Different"},
	}

	got := SelectShow(cands, parse.TVHint{ShowName: "The Expanse"})
	require.NotNil(t, got)
	assert.Equal(t, 7, got.CatalogID)
}

func TestSelectShowEmpty(t *testing.T) {
	assert.Nil(t, SelectShow(nil, parse.TVHint{ShowName: "Anything"}))
}
