// Package taste implements the matching core: cross-service artist
// aggregation, concert and festival match scoring, and group overlap
// statistics. Everything here is a pure transformation over in-memory
// data; callers own all I/O.
package taste

import (
	"sort"
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/normalize"
)

// ServiceArtistList is one connected service's ranked artist list,
// optionally with the service's own ranked genre list.
type ServiceArtistList struct {
	Service domain.ServiceID
	Artists []domain.RawArtistEntry
	Genres  []string
}

// positionScore is the rank-decayed contribution of list position i:
// first place is worth basePositionScore, decaying by one per rank and
// floored so a long tail still counts for something.
func positionScore(i int) float64 {
	s := basePositionScore - i
	if s < minPositionScore {
		s = minPositionScore
	}
	return float64(s)
}

// AggregateArtists merges per-service artist lists into one
// deduplicated, score-ranked profile, at most maxAggregatedArtists
// entries. A service with no data contributes nothing; the merge never
// fails because one source is empty.
func AggregateArtists(lists []ServiceArtistList) []domain.AggregatedArtist {
	index := NewLinearIndex()
	byKey := make(map[string]*domain.AggregatedArtist)
	// Per-artist genre display forms, keyed by normalized genre.
	// First-seen capitalization wins.
	genreForms := make(map[string]map[string]string)

	for _, list := range lists {
		weight := serviceWeight(list.Service)
		for i, raw := range list.Artists {
			if strings.TrimSpace(raw.Name) == "" {
				continue
			}

			score := positionScore(i) * weight
			key, existing := index.FindOrInsert(raw.Name)

			if !existing {
				a := &domain.AggregatedArtist{
					Name:           raw.Name,
					NormalizedName: key,
					Score:          score,
					Sources:        []domain.ServiceID{list.Service},
					ImageURL:       raw.ImageURL,
					SourceIDs:      map[domain.ServiceID]string{},
				}
				if raw.SourceID != "" {
					a.SourceIDs[list.Service] = raw.SourceID
				}
				genreForms[key] = map[string]string{}
				mergeGenres(a, genreForms[key], raw.Genres)
				byKey[key] = a
				continue
			}

			a := byKey[key]
			a.Score += score
			if !a.HasSource(list.Service) {
				a.Sources = append(a.Sources, list.Service)
			}
			if raw.SourceID != "" {
				if _, ok := a.SourceIDs[list.Service]; !ok {
					a.SourceIDs[list.Service] = raw.SourceID
				}
			}
			// The longer billing is usually the more complete one.
			if len(raw.Name) > len(a.Name) {
				a.Name = raw.Name
			}
			if a.ImageURL == "" {
				a.ImageURL = raw.ImageURL
			}
			mergeGenres(a, genreForms[key], raw.Genres)
		}
	}

	out := make([]domain.AggregatedArtist, 0, len(byKey))
	for _, a := range byKey {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].NormalizedName < out[j].NormalizedName
	})
	if len(out) > maxAggregatedArtists {
		out = out[:maxAggregatedArtists]
	}
	return out
}

// mergeGenres unions new genre tags into the artist, deduplicating
// case-insensitively and keeping the capitalization seen first.
func mergeGenres(a *domain.AggregatedArtist, forms map[string]string, genres []string) {
	for _, g := range genres {
		if strings.TrimSpace(g) == "" {
			continue
		}
		key := normalize.Name(g)
		if key == "" {
			continue
		}
		if _, seen := forms[key]; seen {
			continue
		}
		forms[key] = g
		a.Genres = append(a.Genres, g)
	}
}

// AggregateGenres merges the per-service ranked genre lists the same
// way artists are merged: position score times service weight, summed
// by normalized genre. Returns the top maxAggregatedGenres by weight.
func AggregateGenres(lists []ServiceArtistList) []domain.RankedGenre {
	weights := make(map[string]float64)
	forms := make(map[string]string)

	for _, list := range lists {
		w := serviceWeight(list.Service)
		for i, g := range list.Genres {
			key := normalize.Name(g)
			if key == "" {
				continue
			}
			weights[key] += positionScore(i) * w
			if _, ok := forms[key]; !ok {
				forms[key] = g
			}
		}
	}

	out := make([]domain.RankedGenre, 0, len(weights))
	for key, w := range weights {
		out = append(out, domain.RankedGenre{Name: forms[key], Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxAggregatedGenres {
		out = out[:maxAggregatedGenres]
	}
	return out
}
