package domain

// ServiceID identifies a connected music source.
type ServiceID string

// Connected music services. Manual is the pseudo-service backing
// hand-picked favorite artists.
const (
	ServiceSpotify    ServiceID = "spotify"
	ServiceAppleMusic ServiceID = "apple_music"
	ServiceYouTube    ServiceID = "youtube_music"
	ServiceTidal      ServiceID = "tidal"
	ServiceManual     ServiceID = "manual"
)

// RawArtistEntry is one artist as reported by a single music service,
// consumed immediately by the aggregator. All fields except Name are
// optional; absent data is tolerated, never an error.
type RawArtistEntry struct {
	Name       string   `json:"name"`
	SourceID   string   `json:"source_id,omitempty"`
	Genres     []string `json:"genres,omitempty"`
	Popularity int      `json:"popularity,omitempty"`
	ImageURL   string   `json:"image_url,omitempty"`
}

// AggregatedArtist is one distinct real-world artist in a user's
// profile, merged across every service that mentioned them.
// NormalizedName is unique within a user's aggregate.
type AggregatedArtist struct {
	Name           string               `json:"name"`
	NormalizedName string               `json:"normalized_name"`
	Score          float64              `json:"score"`
	Genres         []string             `json:"genres,omitempty"`
	Sources        []ServiceID          `json:"sources"`
	ImageURL       string               `json:"image_url,omitempty"`
	SourceIDs      map[ServiceID]string `json:"source_ids,omitempty"`
}

// HasSource reports whether the artist was contributed by the service.
func (a *AggregatedArtist) HasSource(s ServiceID) bool {
	for _, src := range a.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// ManualPicks are hand-entered favorite artists and genres. They feed
// aggregation as a pseudo-service and survive profile rebuilds.
type ManualPicks struct {
	Record
	UserID  string   `json:"user_id"`
	Artists []string `json:"artists,omitempty"`
	Genres  []string `json:"genres,omitempty"`
}

// RankedGenre is a genre with its accumulated cross-service weight.
type RankedGenre struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// UserMusicProfile is the derived, read-mostly taste profile for one
// user. Rebuilt wholesale on every sync; never patched incrementally.
type UserMusicProfile struct {
	Record
	UserID            string             `json:"user_id"`
	TopArtists        []AggregatedArtist `json:"top_artists"`         // score desc
	TopGenres         []string           `json:"top_genres"`          // weight desc
	RecentArtistNames []string           `json:"recent_artist_names"` // most recent first
	ConnectedServices []ServiceID        `json:"connected_services"`
}

// ArtistNames returns the display names of the top artists, in rank order.
func (p *UserMusicProfile) ArtistNames() []string {
	names := make([]string, len(p.TopArtists))
	for i, a := range p.TopArtists {
		names[i] = a.Name
	}
	return names
}
