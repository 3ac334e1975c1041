package scraper

import "strings"

// FilterMode selects how the relevance filter treats addresses that yield no
// decisive signal.
type FilterMode string

const (
	// ModePermissive includes a record when no location part matches. This is
	// the default: the system prefers over-inclusion to under-inclusion.
	ModePermissive FilterMode = "permissive"

	// ModeStrict excludes a record when no location part matches.
	ModeStrict FilterMode = "strict"
)

// minWordLength is the shortest address word considered a location signal.
// Shorter tokens are mostly stopwords and produce false matches.
const minWordLength = 4

// Valid reports whether m is a known filter mode.
func (m FilterMode) Valid() bool {
	return m == ModePermissive || m == ModeStrict
}

// inTargetLocation decides whether address plausibly belongs to the requested
// location string. Comma-separated locations match on the first non-empty
// part (the district-like token); locations without a comma match on the
// whole string or on any sufficiently long word.
func inTargetLocation(address, location string, mode FilterMode) bool {
	addr := foldCase(address)
	loc := foldCase(location)

	if strings.Contains(loc, ",") {
		for _, part := range strings.Split(loc, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if strings.Contains(addr, part) {
				return true
			}
			break // only the first non-empty part carries districting signal
		}
		return mode == ModePermissive
	}

	if strings.Contains(addr, loc) {
		return true
	}
	for _, word := range strings.Fields(loc) {
		if len([]rune(word)) >= minWordLength && strings.Contains(addr, word) {
			return true
		}
	}

	return mode == ModePermissive
}
