package domain

// Source identifies a ticketing listing provider.
type Source string

// Ticketing sources, in default merge-priority order.
const (
	SourceTicketmaster Source = "ticketmaster"
	SourceSeatGeek     Source = "seatgeek"
	SourceBandsintown  Source = "bandsintown"
)

// DefaultSourceOrder is the priority order used when folding listings
// from multiple sources into canonical events. The first source's
// listing becomes the primary record on a merge.
var DefaultSourceOrder = []Source{SourceTicketmaster, SourceSeatGeek, SourceBandsintown}

// Venue is where a concert happens.
type Venue struct {
	Name     string    `json:"name"`
	City     string    `json:"city"`
	State    string    `json:"state,omitempty"`
	Country  string    `json:"country"`
	Location *GeoPoint `json:"location,omitempty"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PriceRange is the listed ticket price span in the venue currency.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Concert is a normalized listing from one ticketing source.
// MatchScore and MatchReasons are attached by the scorer, not intrinsic.
type Concert struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Artists      []string    `json:"artists"`
	Venue        Venue       `json:"venue"`
	Date         string      `json:"date"` // YYYY-MM-DD
	Time         string      `json:"time,omitempty"`
	ImageURL     string      `json:"image_url,omitempty"`
	TicketURL    string      `json:"ticket_url"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
	Genres       []string    `json:"genres,omitempty"`
	Description  string      `json:"description,omitempty"` // markdown
	VenueSize    string      `json:"venue_size,omitempty"`
	DistanceKm   float64     `json:"distance_km,omitempty"`
	MatchScore   float64     `json:"match_score,omitempty"`
	MatchReasons []string    `json:"match_reasons,omitempty"`
}

// AlternateURL is a secondary ticket link contributed by a merged source.
type AlternateURL struct {
	Source Source `json:"source"`
	URL    string `json:"url"`
}

// BestPrice is the cheapest listed price across merged sources.
type BestPrice struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Source Source  `json:"source"`
}

// AggregatedConcert is one canonical real-world event after
// cross-source deduplication. Sources is never empty.
type AggregatedConcert struct {
	Concert
	Sources       []Source       `json:"sources"`
	AlternateURLs []AlternateURL `json:"alternate_urls,omitempty"`
	BestPrice     *BestPrice     `json:"best_price,omitempty"`
}

// HasSource reports whether a listing from the source was merged in.
func (c *AggregatedConcert) HasSource(s Source) bool {
	for _, src := range c.Sources {
		if src == s {
			return true
		}
	}
	return false
}
