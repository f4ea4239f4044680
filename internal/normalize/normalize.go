// Package normalize provides canonical string forms and fuzzy identity
// checks for artist, venue, and genre names coming from heterogeneous
// sources (streaming services, ticketing APIs, festival lineups).
package normalize

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// minSubstringLen guards substring containment against very short
	// names ("MIA" inside "Bohemian Rhapsody" style false positives).
	minSubstringLen = 4

	// minEditDistanceLen is the minimum normalized length before the
	// edit-distance tolerance kicks in.
	minEditDistanceLen = 6

	// maxEditDistanceRatio is the typo tolerance: edit distance divided
	// by the longer string's length must stay below this.
	maxEditDistanceRatio = 0.20
)

// accentFolder decomposes accented characters and drops the combining
// marks, so "Beyoncé" and "Beyonce" normalize identically.
var accentFolder = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name canonicalizes a name for comparison: accents folded, lowercased,
// everything outside [a-z0-9 ] stripped, whitespace collapsed.
func Name(s string) string {
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}

	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true // treat leading whitespace as already collapsed
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// ArtistName is Name with a leading "the " stripped, so "The National"
// and "National" collapse to the same key.
func ArtistName(s string) string {
	n := Name(s)
	if rest, ok := strings.CutPrefix(n, "the "); ok && rest != "" {
		return rest
	}
	return n
}

// SameArtist reports whether two raw names refer to the same artist.
//
// Two names match when their normalized forms are identical, when one
// contains the other (and the shorter is long enough to be meaningful),
// or when both are long enough and within typo tolerance of each other.
// Names that normalize to the empty string only match each other.
func SameArtist(a, b string) bool {
	na := ArtistName(a)
	nb := ArtistName(b)

	if na == nb {
		return true
	}
	// An all-punctuation name must not fuzzy-match a different
	// all-punctuation name.
	if na == "" || nb == "" {
		return false
	}

	shorter := na
	if len(nb) < len(na) {
		shorter = nb
	}
	if len(shorter) >= minSubstringLen &&
		(strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}

	if len(na) > minEditDistanceLen-1 && len(nb) > minEditDistanceLen-1 {
		longer := max(len(na), len(nb))
		dist := levenshtein.ComputeDistance(na, nb)
		if float64(dist)/float64(longer) < maxEditDistanceRatio {
			return true
		}
	}

	return false
}

// SameName is SameArtist without the leading-"the" stripping, used for
// venue and genre comparison where the article is meaningful less often
// but stripping it would be wrong ("The Forum" vs "Forum" is the same
// building; "The Roxy" vs "Roxy" likewise — containment covers both).
func SameName(a, b string) bool {
	na := Name(a)
	nb := Name(b)

	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return false
	}

	shorter := na
	if len(nb) < len(na) {
		shorter = nb
	}
	if len(shorter) >= minSubstringLen &&
		(strings.Contains(na, nb) || strings.Contains(nb, na)) {
		return true
	}

	if len(na) > minEditDistanceLen-1 && len(nb) > minEditDistanceLen-1 {
		longer := max(len(na), len(nb))
		dist := levenshtein.ComputeDistance(na, nb)
		if float64(dist)/float64(longer) < maxEditDistanceRatio {
			return true
		}
	}

	return false
}

// ContainsArtist reports whether any name in names fuzzy-matches target.
func ContainsArtist(names []string, target string) bool {
	for _, n := range names {
		if SameArtist(n, target) {
			return true
		}
	}
	return false
}

// SameGenre reports whether two genre labels overlap: either direction
// substring containment on the normalized forms. "indie rock" matches
// "rock" and "indie".
func SameGenre(a, b string) bool {
	na := Name(a)
	nb := Name(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// GenreRoot returns the last word of a normalized genre label, the
// coarse family used for discovery-tier matching ("dream pop" -> "pop").
func GenreRoot(s string) string {
	n := Name(s)
	if n == "" {
		return ""
	}
	fields := strings.Fields(n)
	return fields[len(fields)-1]
}
