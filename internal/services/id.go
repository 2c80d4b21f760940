package services

import (
	"fmt"
	"strings"

	"spotlike/internal/shared"
)

// trackIDLength is the length of a canonical Spotify track identifier.
const trackIDLength = 22

// ParseTrackID normalizes a loosely formatted track reference into a canonical
// 22-character identifier.
//
// Accepted forms, in priority order:
//  1. URI form "spotify:track:<id>"
//  2. Bare 22-character alphanumeric identifier
//  3. Sharing-URL form where the identifier is the final path segment,
//     optionally followed by a query string
//
// Anything else fails with [shared.ErrInvalidTrackID]. The function is pure
// and performs no I/O.
func ParseTrackID(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: empty identifier", shared.ErrInvalidTrackID)
	}

	if strings.HasPrefix(raw, "spotify:") {
		parts := strings.Split(raw, ":")
		if len(parts) != 3 || !isCanonicalID(parts[2]) {
			return "", fmt.Errorf("%w: %q", shared.ErrInvalidTrackID, raw)
		}
		return parts[2], nil
	}

	if isCanonicalID(raw) {
		return raw, nil
	}

	if strings.Contains(raw, "/") {
		trimmed := raw
		if i := strings.IndexByte(trimmed, '?'); i >= 0 {
			trimmed = trimmed[:i]
		}
		segments := strings.Split(trimmed, "/")
		last := segments[len(segments)-1]
		if isCanonicalID(last) {
			return last, nil
		}
	}

	return "", fmt.Errorf("%w: %q", shared.ErrInvalidTrackID, raw)
}

func isCanonicalID(s string) bool {
	if len(s) != trackIDLength {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}
