// Package search provides full-text search over concerts, festivals,
// and lineup artists using Bleve, with fuzzy matching for typo
// tolerance and faceted genre/type filtering.
package search

import (
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeConcert  DocType = "concert"
	DocTypeFestival DocType = "festival"
	DocTypeArtist   DocType = "artist"
)

// SearchDocument is the unified document structure for the Bleve index.
// All searchable entities are indexed as SearchDocuments with type
// discrimination.
//
// Design note: we denormalize artist names and venue/city into concert
// documents, and festival names into lineup-artist documents, so one
// query answers "who should I see" without store round-trips.
type SearchDocument struct {
	// Identity
	ID   string  `json:"id"`
	Type DocType `json:"type"`

	// Primary searchable text (concert: event name, festival: festival
	// name, artist: artist name)
	Name string `json:"name"`

	// Concert-specific fields
	Artists []string `json:"artists,omitempty"` // Denormalized for search
	Venue   string   `json:"venue,omitempty"`

	// Shared location fields (concert venue city / festival location)
	City string `json:"city,omitempty"`

	// Artist-specific fields
	FestivalName string `json:"festival_name,omitempty"` // Denormalized for search
	Stage        string `json:"stage,omitempty"`
	Day          string `json:"day,omitempty"`

	// Genre slugs for exact matching and faceting
	Genres []string `json:"genres,omitempty"`

	// Date as YYYY-MM-DD for term-range filtering (concerts and
	// scheduled lineup slots)
	Date string `json:"date,omitempty"`

	Headliner bool `json:"headliner,omitempty"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":   d.ID,
		"type": string(d.Type),
		"name": d.Name,
	}

	if len(d.Artists) > 0 {
		m["artists"] = d.Artists
	}
	if d.Venue != "" {
		m["venue"] = d.Venue
	}
	if d.City != "" {
		m["city"] = strings.ToLower(d.City)
	}
	if d.FestivalName != "" {
		m["festival_name"] = d.FestivalName
	}
	if d.Stage != "" {
		m["stage"] = d.Stage
	}
	if d.Day != "" {
		m["day"] = d.Day
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.Date != "" {
		m["date"] = d.Date
	}
	if d.Headliner {
		m["headliner"] = true
	}

	return m
}

// ConcertToSearchDocument converts an aggregated concert to a SearchDocument.
func ConcertToSearchDocument(c *domain.AggregatedConcert) *SearchDocument {
	return &SearchDocument{
		ID:      c.ID,
		Type:    DocTypeConcert,
		Name:    c.Name,
		Artists: c.Artists,
		Venue:   c.Venue.Name,
		City:    c.Venue.City,
		Genres:  c.Genres,
		Date:    c.Date,
	}
}

// FestivalToSearchDocument converts a festival to a SearchDocument.
// Lineup artist names are denormalized so a festival surfaces when you
// search for anyone playing it; individual slots get their own artist
// documents via LineupToSearchDocuments.
func FestivalToSearchDocument(f *domain.Festival) *SearchDocument {
	doc := &SearchDocument{
		ID:   f.ID,
		Type: DocTypeFestival,
		Name: f.Name,
		City: f.Location,
	}
	if len(f.Days) > 0 {
		doc.Date = f.Days[0].Date
	}
	seen := make(map[string]bool)
	for _, fa := range f.Lineup {
		doc.Artists = append(doc.Artists, fa.ArtistName)
		for _, g := range fa.Genres {
			if !seen[g] {
				seen[g] = true
				doc.Genres = append(doc.Genres, g)
			}
		}
	}
	return doc
}

// LineupToSearchDocuments converts a festival's lineup slots to
// artist documents, one per scheduled appearance.
func LineupToSearchDocuments(f *domain.Festival) []*SearchDocument {
	docs := make([]*SearchDocument, 0, len(f.Lineup))
	for _, fa := range f.Lineup {
		docs = append(docs, &SearchDocument{
			ID:           fa.ID,
			Type:         DocTypeArtist,
			Name:         fa.ArtistName,
			FestivalName: f.Name,
			Stage:        fa.Stage,
			Day:          fa.Day,
			Genres:       fa.Genres,
			Date:         f.DateFor(fa.Day),
			Headliner:    fa.Headliner,
		})
	}
	return docs
}
