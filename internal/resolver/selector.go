package resolver

import (
	"strings"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/parse"
)

// ──────────────────── Match Selection ────────────────────
// Candidates arrive pre-sorted by relevance, so "first in given order" is
// the fallback everywhere. Both selectors are pure.

// SelectMovie picks the best movie candidate for a parsed hint.
// With a year hint: exact year wins, then ±1 year, then first candidate.
// Without one: first candidate. Returns nil only for an empty slice.
func SelectMovie(candidates []models.SearchCandidate, hint parse.MovieHint) *models.SearchCandidate {
	if len(candidates) == 0 {
		return nil
	}

	if hint.Year != nil {
		for i := range candidates {
			if candidates[i].Year != nil && *candidates[i].Year == *hint.Year {
				return &candidates[i]
			}
		}
		for i := range candidates {
			if candidates[i].Year == nil {
				continue
			}
			diff := *candidates[i].Year - *hint.Year
			if diff >= -1 && diff <= 1 {
				return &candidates[i]
			}
		}
	}

	return &candidates[0]
}

// normalizeShowName lowercases and strips the separators the two sides may
// disagree on, so "Mr. Robot" and "mr robot" compare equal.
func normalizeShowName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", " ")
	return strings.Join(strings.Fields(s), " ")
}

// SelectShow picks the best show candidate: exact normalized-name match
// first, then first candidate. Returns nil only for an empty slice.
func SelectShow(candidates []models.SearchCandidate, hint parse.TVHint) *models.SearchCandidate {
	if len(candidates) == 0 {
		return nil
	}

	want := normalizeShowName(hint.ShowName)
	for i := range candidates {
		if normalizeShowName(candidates[i].Name) == want {
			return &candidates[i]
		}
	}
	return &candidates[0]
}
