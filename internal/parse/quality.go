package parse

import "strings"

// ──────────────────── Quality Detection ────────────────────

// qualityPattern pairs a raw substring seen in release names with the
// normalized label we report. The slice is scanned in order and the first
// containment match wins, so more specific spellings must come first
// (e.g. "2160p" before "web", "web-dl" before "web").
type qualityPattern struct {
	token string
	label string
}

var qualityPatterns = []qualityPattern{
	// Resolution tiers
	{"2160p", "4K"},
	{"uhd", "4K"},
	{"4k", "4K"},
	{"1080p", "1080p"},
	{"1080i", "1080p"},
	{"720p", "720p"},
	{"576p", "576p"},
	{"480p", "480p"},
	// Source rips (normalized spellings collapse: WEBDL == WEB-DL)
	{"bluray", "BluRay"},
	{"blu-ray", "BluRay"},
	{"bdrip", "BluRay"},
	{"brrip", "BluRay"},
	{"remux", "Remux"},
	{"web-dl", "WEB-DL"},
	{"webdl", "WEB-DL"},
	{"webrip", "WEBRip"},
	{"hdtv", "HDTV"},
	{"dvdrip", "DVD"},
	{"dvd", "DVD"},
	{"hdrip", "HDRip"},
	{"cam", "CAM"},
}

// extractQuality scans name for the first quality pattern and returns the
// normalized label plus the name with that matched span removed. Returns
// ("", name) when nothing matches.
func extractQuality(name string) (label, remainder string) {
	lower := strings.ToLower(name)
	for _, qp := range qualityPatterns {
		idx := strings.Index(lower, qp.token)
		if idx < 0 {
			continue
		}
		remainder = name[:idx] + name[idx+len(qp.token):]
		return qp.label, remainder
	}
	return "", name
}

// isQualityToken reports whether a single cleaned token is one of the raw
// quality spellings. Used by title cleanup as a truncation point.
func isQualityToken(token string) bool {
	tl := strings.ToLower(token)
	for _, qp := range qualityPatterns {
		if tl == qp.token {
			return true
		}
	}
	return false
}
