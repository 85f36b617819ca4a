package parse

import (
	"regexp"
	"strconv"
)

// ──────────────────── TV Hint ────────────────────

// TVHint is the structured output of episode filename parsing. Valid is
// true only when both a season and an episode number were found.
type TVHint struct {
	ShowName   string
	Season     int
	Episode    int
	EpisodeEnd int // last episode of a multi-episode file, 0 for single
	Quality    string
	Valid      bool
}

// MultiEpisode reports whether the file spans an episode range.
func (h TVHint) MultiEpisode() bool {
	return h.EpisodeEnd > 0
}

// ──────────────────── Episode Patterns ────────────────────

// episodePattern binds a regex to the submatch layout it produces.
// Patterns are tried in order; the first match wins.
type episodePattern struct {
	rx       *regexp.Regexp
	hasRange bool
}

var episodePatterns = []episodePattern{
	// S01E03-E04 and S01E03-04
	{regexp.MustCompile(`(?i)S(\d{1,2})\s*E(\d{1,3})\s*-\s*E?(\d{1,3})`), true},
	// S01E03E04 (consecutive, no dash)
	{regexp.MustCompile(`(?i)S(\d{1,2})\s*E(\d{1,3})E(\d{1,3})`), true},
	// S01E03, S1E3, S01E103
	{regexp.MustCompile(`(?i)S(\d{1,2})\s*E(\d{1,3})`), false},
	// 1x03
	{regexp.MustCompile(`(?i)(?:^|[\s._-])(\d{1,2})x(\d{1,3})(?:[\s._-]|$)`), false},
	// Season 1 Episode 3, with flexible separators
	{regexp.MustCompile(`(?i)Season[\s._-]*(\d{1,2})[\s._-]*Episode[\s._-]*(\d{1,3})`), false},
}

// extractEpisode tries the episode patterns in priority order and returns
// season, episode, optional range end, and the byte offset where the match
// begins (for show-name extraction). found=false when nothing matched.
func extractEpisode(name string) (season, episode, episodeEnd, matchPos int, found bool) {
	for _, ep := range episodePatterns {
		m := ep.rx.FindStringSubmatchIndex(name)
		if m == nil {
			continue
		}
		season, _ = strconv.Atoi(name[m[2]:m[3]])
		episode, _ = strconv.Atoi(name[m[4]:m[5]])
		if ep.hasRange && m[6] >= 0 {
			episodeEnd, _ = strconv.Atoi(name[m[6]:m[7]])
		}
		return season, episode, episodeEnd, m[0], true
	}
	return 0, 0, 0, -1, false
}

// ──────────────────── Parser ────────────────────

// TV parses an episode filename into a hint. Total: when no episode
// pattern matches, the result carries only a cleaned show name and
// Valid=false.
func TV(filename string) TVHint {
	base := stripVideoExtension(filename)
	quality, remainder := extractQuality(base)

	hint := TVHint{Quality: quality}

	season, episode, episodeEnd, pos, ok := extractEpisode(remainder)
	if !ok {
		hint.ShowName = cleanTitle(remainder, tvStopWords, tvCompounds)
		if hint.ShowName == "" {
			hint.ShowName = base
		}
		return hint
	}

	hint.Season = season
	hint.Episode = episode
	hint.EpisodeEnd = episodeEnd
	hint.Valid = true

	namePart := remainder
	if pos > 0 {
		namePart = remainder[:pos]
	}
	hint.ShowName = cleanTitle(namePart, tvStopWords, tvCompounds)
	if hint.ShowName == "" {
		hint.ShowName = cleanTitle(base, tvStopWords, tvCompounds)
	}
	if hint.ShowName == "" {
		// Never return an empty show name: fall back to the raw base name.
		hint.ShowName = base
	}
	return hint
}

// IsTVShow reports whether the filename carries a recognizable
// season/episode marker.
func IsTVShow(filename string) bool {
	return TV(filename).Valid
}
