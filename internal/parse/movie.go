package parse

import (
	"regexp"
	"strconv"
	"time"
)

// ──────────────────── Movie Hint ────────────────────

// MovieHint is the structured output of movie filename parsing. It is
// derived on demand and never persisted.
type MovieHint struct {
	Title   string
	Year    *int
	Quality string // normalized label, "" when absent
}

// ──────────────────── Year Extraction ────────────────────

// The four year rules, in priority order. Each must both match and yield a
// year inside the valid window before the remaining rules are skipped.
var (
	yearParensRx   = regexp.MustCompile(`\((\d{4})\)`)
	yearBracketsRx = regexp.MustCompile(`\[(\d{4})\]`)
	yearMidRx      = regexp.MustCompile(`[\s._-](\d{4})[\s._-]`)
	yearTrailRx    = regexp.MustCompile(`[\s._-](\d{4})\s*$`)
)

var yearRules = []*regexp.Regexp{yearParensRx, yearBracketsRx, yearMidRx, yearTrailRx}

// earliestFilmYear is the year of the first film ever made.
const earliestFilmYear = 1888

// validYear checks the 1888 .. current-year+5 window. The upper slack
// covers pre-release naming of announced titles.
func validYear(y int) bool {
	return y >= earliestFilmYear && y <= time.Now().Year()+5
}

// extractYear runs the year rules against name and returns the year plus
// the text preceding the match. found=false leaves name untouched as title.
func extractYear(name string) (year int, before string, found bool) {
	for _, rx := range yearRules {
		for _, m := range rx.FindAllStringSubmatchIndex(name, -1) {
			y, err := strconv.Atoi(name[m[2]:m[3]])
			if err != nil || !validYear(y) {
				continue
			}
			return y, name[:m[0]], true
		}
	}
	return 0, name, false
}

// ──────────────────── Parser ────────────────────

// Movie parses a movie filename into a hint. It is a total function:
// unparseable names fall back to a cleaned best-effort title with no year.
func Movie(filename string) MovieHint {
	base := stripVideoExtension(filename)
	quality, remainder := extractQuality(base)

	hint := MovieHint{Quality: quality}

	if year, before, ok := extractYear(remainder); ok {
		y := year
		hint.Year = &y
		remainder = before
	}

	hint.Title = cleanTitle(remainder, movieStopWords, movieCompounds)
	if hint.Title == "" {
		// Never return an empty title: fall back to the cleaned full base name.
		hint.Title = cleanTitle(base, movieStopWords, movieCompounds)
	}
	if hint.Title == "" {
		hint.Title = base
	}
	return hint
}
