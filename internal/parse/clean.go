package parse

import (
	"regexp"
	"strings"
)

// ──────────────────── Video Extensions ────────────────────

// videoExtensions is the fixed list of suffixes stripped before parsing.
// Checked case-insensitively; anything else is left on the name.
var videoExtensions = []string{
	".mkv", ".mp4", ".avi", ".mov", ".m4v", ".wmv", ".flv",
	".ts", ".m2ts", ".mpg", ".mpeg", ".webm", ".vob", ".divx",
}

// stripVideoExtension removes a known video-file extension, or returns the
// name unchanged when the suffix is not a recognized container.
func stripVideoExtension(filename string) string {
	lower := strings.ToLower(filename)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}

// ──────────────────── Stop Words ────────────────────
// Token vocabulary that marks the end of a title: containers, codecs,
// audio formats, source rips, and common release-group noise.

func buildStopSet(slices ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, sl := range slices {
		for _, s := range sl {
			set[strings.ToLower(s)] = true
		}
	}
	return set
}

var commonStopWords = buildStopSet(
	// Video codecs
	[]string{"x264", "x265", "h264", "h265", "hevc", "avc", "xvid", "divx", "av1", "vp9", "10bit", "8bit"},
	// Audio codecs & channels
	[]string{"aac", "ac3", "eac3", "dts", "dtshd", "truehd", "atmos", "flac", "mp3", "opus", "dd5", "ddp5"},
	// Source / rip
	[]string{"bluray", "bdrip", "brrip", "remux", "webrip", "webdl", "web", "hdtv", "dvdrip", "dvd", "hdrip", "cam", "telesync"},
	// Release noise
	[]string{"proper", "repack", "rerip", "internal", "limited", "extended", "unrated", "remastered", "imax", "hdr", "hdr10", "dv", "multi", "dubbed", "subbed"},
	// Containers appearing as tokens
	[]string{"mkv", "mp4", "avi"},
)

// movieStopWords adds movie-release noise that would be legitimate inside a
// show name ("Pilot", episode titles are kept verbatim for TV).
var movieStopWords = buildStopSet(
	[]string{"criterion", "theatrical", "directors", "uncut", "3d"},
)

// tvStopWords adds per-episode release noise.
var tvStopWords = buildStopSet(
	[]string{"hdtv", "pdtv", "dsr", "www"},
)

// ──────────────────── Compound Words ────────────────────
// Hyphen pairs that are real words, not separators. Checked lowercase.

type compoundPair struct {
	prefix string
	suffix string
}

var movieCompounds = []compoundPair{
	{"spider", "man"},
	{"ant", "man"},
	{"kick", "ass"},
	{"wall", "e"},
	{"mad", "max"},
}

var tvCompounds = []compoundPair{
	{"mr", "robot"},
	{"x", "files"},
	{"star", "crossed"},
	{"she", "hulk"},
}

// isCompoundHyphen decides whether the hyphen splitting prefix and suffix is
// part of a compound word. A single uppercase letter before the hyphen
// ("X-Men", "T-Rex") always counts; otherwise the pair must be in the table.
func isCompoundHyphen(prefix, suffix string, pairs []compoundPair) bool {
	if len(prefix) == 1 && prefix[0] >= 'A' && prefix[0] <= 'Z' {
		return true
	}
	pl := strings.ToLower(prefix)
	sl := strings.ToLower(suffix)
	for _, p := range pairs {
		if pl == p.prefix && sl == p.suffix {
			return true
		}
	}
	return false
}

// hyphenWordRx captures the word fragments on either side of each hyphen.
var hyphenWordRx = regexp.MustCompile(`(\w+)-(\w+)`)

// replaceSeparatorHyphens applies the conditional hyphen rules:
//   - text already containing a space keeps every hyphen (assumed intentional)
//   - three or more hyphens means the whole name is hyphen-delimited
//   - otherwise each hyphen is judged by the compound-word heuristic
func replaceSeparatorHyphens(name string, pairs []compoundPair) string {
	if !strings.Contains(name, "-") {
		return name
	}
	if strings.Contains(name, " ") {
		return name
	}
	if strings.Count(name, "-") >= 3 {
		return strings.ReplaceAll(name, "-", " ")
	}

	return hyphenWordRx.ReplaceAllStringFunc(name, func(m string) string {
		parts := hyphenWordRx.FindStringSubmatch(m)
		if isCompoundHyphen(parts[1], parts[2], pairs) {
			return m
		}
		return parts[1] + " " + parts[2]
	})
}

// ──────────────────── Title Cleanup ────────────────────

var multiSpaceRx = regexp.MustCompile(`\s+`)

// cleanTitle normalizes a raw title fragment: dots and underscores become
// spaces, hyphens are resolved per the compound rules, and tokens are kept
// in order until the first stop-word or quality token.
func cleanTitle(raw string, stop map[string]bool, pairs []compoundPair) string {
	name := strings.ReplaceAll(raw, ".", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = replaceSeparatorHyphens(name, pairs)

	var kept []string
	for _, token := range strings.Fields(name) {
		tl := strings.ToLower(strings.Trim(token, "()[]{},;"))
		if tl == "" {
			continue
		}
		if commonStopWords[tl] || stop[tl] || isQualityToken(tl) {
			break
		}
		kept = append(kept, strings.Trim(token, "()[]{},;"))
	}

	title := strings.Join(kept, " ")
	title = multiSpaceRx.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}
