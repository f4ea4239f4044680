package taste

import "github.com/encoreapp/encore-server/internal/normalize"

// ArtistIndex resolves raw artist names to stable keys under fuzzy
// identity. FindOrInsert returns the key of an already-known artist
// the candidate matches, or records the candidate and returns its own
// normalized form as a new key.
//
// The linear implementation below is O(n) per lookup, O(n²) per sync,
// which is fine at the few-hundred-artist scale profiles run at. A
// phonetic or blocking index can replace it without touching callers.
type ArtistIndex interface {
	FindOrInsert(rawName string) (key string, existing bool)
}

type linearIndex struct {
	keys []string
}

// NewLinearIndex returns an ArtistIndex backed by a linear fuzzy scan.
func NewLinearIndex() ArtistIndex {
	return &linearIndex{}
}

func (ix *linearIndex) FindOrInsert(rawName string) (string, bool) {
	norm := normalize.ArtistName(rawName)
	for _, k := range ix.keys {
		if k == norm {
			return k, true
		}
	}
	// Exact key miss: scan for fuzzy identity against known keys.
	// Keys are already normalized, and SameArtist normalizes its
	// inputs, so this compares canonical forms.
	for _, k := range ix.keys {
		if normalize.SameArtist(k, norm) {
			return k, true
		}
	}
	ix.keys = append(ix.keys, norm)
	return norm, false
}
