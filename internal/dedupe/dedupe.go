// Package dedupe decides when listings from different ticketing
// sources describe the same real-world concert, and merges their
// metadata into one canonical event.
package dedupe

import (
	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/normalize"
)

// SameConcert reports whether two listings are the same event: same
// date, at least one billed artist in common, and a venue or city that
// fuzzily agrees. Venue matching is deliberately permissive (venue OR
// city) because cross-source venue naming varies widely; the date and
// artist requirements carry the precision.
func SameConcert(a, b domain.Concert) bool {
	if a.Date == "" || a.Date != b.Date {
		return false
	}

	if !artistsOverlap(a.Artists, b.Artists) {
		return false
	}

	return normalize.SameName(a.Venue.Name, b.Venue.Name) ||
		normalize.SameName(a.Venue.City, b.Venue.City)
}

func artistsOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if normalize.SameArtist(x, y) {
				return true
			}
		}
	}
	return false
}

// Merge folds a secondary source's listing into the primary one. The
// merge is one-directional: the primary keeps its identity and fields,
// absorbing only what it lacks — an alternate ticket link, a strictly
// cheaper price, unseen genre tags, a missing image.
func Merge(primary *domain.AggregatedConcert, secondary domain.Concert, src domain.Source) {
	if !primary.HasSource(src) {
		primary.Sources = append(primary.Sources, src)
	}

	if secondary.TicketURL != "" && secondary.TicketURL != primary.TicketURL {
		known := false
		for _, alt := range primary.AlternateURLs {
			if alt.URL == secondary.TicketURL {
				known = true
				break
			}
		}
		if !known {
			primary.AlternateURLs = append(primary.AlternateURLs, domain.AlternateURL{
				Source: src,
				URL:    secondary.TicketURL,
			})
		}
	}

	if secondary.PriceRange != nil {
		if primary.BestPrice == nil && primary.PriceRange != nil {
			primary.BestPrice = &domain.BestPrice{
				Min:    primary.PriceRange.Min,
				Max:    primary.PriceRange.Max,
				Source: primary.Sources[0],
			}
		}
		if primary.BestPrice == nil || secondary.PriceRange.Min < primary.BestPrice.Min {
			primary.BestPrice = &domain.BestPrice{
				Min:    secondary.PriceRange.Min,
				Max:    secondary.PriceRange.Max,
				Source: src,
			}
		}
	}

	primary.Genres = unionGenres(primary.Genres, secondary.Genres)

	if isPlaceholderImage(primary.ImageURL) && secondary.ImageURL != "" {
		primary.ImageURL = secondary.ImageURL
	}
}

// unionGenres appends unseen genres, deduplicating on normalized form.
func unionGenres(existing, incoming []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, g := range existing {
		seen[normalize.Name(g)] = true
	}
	for _, g := range incoming {
		key := normalize.Name(g)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		existing = append(existing, g)
	}
	return existing
}

func isPlaceholderImage(url string) bool {
	return url == "" || url == "/images/concert-placeholder.jpg"
}

// Fold merges per-source listings into canonical events. Sources are
// processed in priority order: the first source's events seed the
// accumulated set, and each later source's events either merge into an
// accumulated event or append as new. Folding a set against itself is
// idempotent — the canonical count never changes.
func Fold(bySource map[domain.Source][]domain.Concert, order []domain.Source) []domain.AggregatedConcert {
	if len(order) == 0 {
		order = domain.DefaultSourceOrder
	}

	var merged []domain.AggregatedConcert
	for _, src := range order {
		for _, c := range bySource[src] {
			if existing := findMatch(merged, c); existing != nil {
				Merge(existing, c, src)
				continue
			}
			merged = append(merged, domain.AggregatedConcert{
				Concert: c,
				Sources: []domain.Source{src},
			})
		}
	}
	return merged
}

func findMatch(merged []domain.AggregatedConcert, c domain.Concert) *domain.AggregatedConcert {
	for i := range merged {
		if SameConcert(merged[i].Concert, c) {
			return &merged[i]
		}
	}
	return nil
}
