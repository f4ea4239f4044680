package domain

// MatchTier is the discrete match-strength bucket for a festival
// lineup artist against one profile. Tiers drive itinerary priority
// and UI grouping; concert matching uses a continuous score instead.
type MatchTier string

const (
	TierPerfect   MatchTier = "perfect"   // exact top-artist match
	TierGenre     MatchTier = "genre"     // top-genre overlap
	TierDiscovery MatchTier = "discovery" // loose genre-root overlap
	TierNone      MatchTier = "none"
)

// Festival is static reference data: a named event with a lineup
// spread over one or more days.
type Festival struct {
	Record
	Name     string          `json:"name"`
	Location string          `json:"location,omitempty"`
	ImageURL string          `json:"image_url,omitempty"`
	// Days maps day names as printed on the poster ("Friday") to
	// calendar dates (YYYY-MM-DD), in lineup order.
	Days   []FestivalDay    `json:"days"`
	Lineup []FestivalArtist `json:"lineup"`
}

// FestivalDay maps a poster day name to its calendar date.
type FestivalDay struct {
	Name string `json:"name"`
	Date string `json:"date"` // YYYY-MM-DD
}

// DateFor returns the calendar date for a poster day name, or "" when
// the festival has no mapping for it.
func (f *Festival) DateFor(dayName string) string {
	for _, d := range f.Days {
		if d.Name == dayName {
			return d.Date
		}
	}
	return ""
}

// FestivalArtist is one scheduled lineup slot.
// Time fields are optional; an unscheduled artist can still be matched
// but never placed in an itinerary.
type FestivalArtist struct {
	ID             string   `json:"id"`
	ArtistName     string   `json:"artist_name"`
	NormalizedName string   `json:"normalized_name"`
	Day            string   `json:"day,omitempty"`
	Stage          string   `json:"stage,omitempty"`
	StartTime      string   `json:"start_time,omitempty"` // HH:MM, 24h
	EndTime        string   `json:"end_time,omitempty"`
	Headliner      bool     `json:"headliner"`
	Genres         []string `json:"genres,omitempty"`
}

// FestivalArtistMatch is a lineup slot scored against one profile.
// Computed per (artist, user) pair; not persisted.
type FestivalArtistMatch struct {
	FestivalArtist
	MatchType   MatchTier `json:"match_type"`
	MatchScore  float64   `json:"match_score"` // 0-100
	MatchReason string    `json:"match_reason,omitempty"`
}
