package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
)

func concert(id, artist, venue, city, date string) domain.Concert {
	return domain.Concert{
		ID:      id,
		Name:    artist + " live",
		Artists: []string{artist},
		Venue:   domain.Venue{Name: venue, City: city, Country: "US"},
		Date:    date,
	}
}

func TestSameConcert(t *testing.T) {
	tests := []struct {
		name string
		a    domain.Concert
		b    domain.Concert
		want bool
	}{
		{
			name: "same event, featured billing",
			a:    concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
			b:    concert("sg-1", "Drake feat. 21 Savage", "Crypto Arena", "Los Angeles", "2026-05-01"),
			want: true,
		},
		{
			name: "different dates never match",
			a:    concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
			b:    concert("sg-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-02"),
			want: false,
		},
		{
			name: "same date and city, different artists",
			a:    concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
			b:    concert("sg-1", "Mitski", "The Wiltern", "Los Angeles", "2026-05-01"),
			want: false,
		},
		{
			name: "city agreement is enough when venues disagree",
			a:    concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
			b:    concert("bit-1", "Drake", "TBA", "Los Angeles, CA", "2026-05-01"),
			want: true,
		},
		{
			name: "empty dates never match",
			a:    concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", ""),
			b:    concert("sg-1", "Drake", "Crypto.com Arena", "Los Angeles", ""),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameConcert(tt.a, tt.b))
			assert.Equal(t, tt.want, SameConcert(tt.b, tt.a), "must be symmetric")
		})
	}
}

func TestFold_MergesSameEventAcrossSources(t *testing.T) {
	tm := concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01")
	tm.TicketURL = "https://tm/drake"
	tm.PriceRange = &domain.PriceRange{Min: 120, Max: 450}

	sg := concert("sg-1", "Drake feat. 21 Savage", "Crypto Arena", "Los Angeles", "2026-05-01")
	sg.TicketURL = "https://sg/drake"
	sg.PriceRange = &domain.PriceRange{Min: 95, Max: 400}
	sg.Genres = []string{"Hip-Hop"}

	merged := Fold(map[domain.Source][]domain.Concert{
		domain.SourceTicketmaster: {tm},
		domain.SourceSeatGeek:     {sg},
	}, nil)

	require.Len(t, merged, 1)
	event := merged[0]

	// The higher-priority source stays primary.
	assert.Equal(t, "tm-1", event.ID)
	assert.Len(t, event.Sources, 2)
	require.Len(t, event.AlternateURLs, 1)
	assert.Equal(t, "https://sg/drake", event.AlternateURLs[0].URL)

	// Strictly lower minimum wins best price.
	require.NotNil(t, event.BestPrice)
	assert.Equal(t, 95.0, event.BestPrice.Min)
	assert.Equal(t, domain.SourceSeatGeek, event.BestPrice.Source)

	assert.Equal(t, []string{"Hip-Hop"}, event.Genres)
}

func TestFold_KeepsDistinctEvents(t *testing.T) {
	merged := Fold(map[domain.Source][]domain.Concert{
		domain.SourceTicketmaster: {
			concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
			concert("tm-2", "Mitski", "The Wiltern", "Los Angeles", "2026-05-01"),
		},
		domain.SourceSeatGeek: {
			concert("sg-1", "Big Thief", "The Fillmore", "San Francisco", "2026-05-01"),
		},
	}, nil)

	assert.Len(t, merged, 3)
}

func TestFold_Idempotent(t *testing.T) {
	events := []domain.Concert{
		concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
		concert("tm-2", "Mitski", "The Wiltern", "Los Angeles", "2026-05-02"),
	}

	once := Fold(map[domain.Source][]domain.Concert{domain.SourceTicketmaster: events}, nil)
	require.Len(t, once, 2)

	// Folding the same list from a second source neither duplicates
	// nor loses events.
	twice := Fold(map[domain.Source][]domain.Concert{
		domain.SourceTicketmaster: events,
		domain.SourceSeatGeek:     events,
	}, nil)
	assert.Len(t, twice, 2)
}

func TestMerge_PriceOnlyImprovesOnStrictlyLower(t *testing.T) {
	primary := &domain.AggregatedConcert{
		Concert: concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
		Sources: []domain.Source{domain.SourceTicketmaster},
	}
	primary.PriceRange = &domain.PriceRange{Min: 80, Max: 200}

	equal := concert("sg-1", "Drake", "Crypto Arena", "Los Angeles", "2026-05-01")
	equal.PriceRange = &domain.PriceRange{Min: 80, Max: 150}
	Merge(primary, equal, domain.SourceSeatGeek)

	require.NotNil(t, primary.BestPrice)
	assert.Equal(t, domain.SourceTicketmaster, primary.BestPrice.Source)
	assert.Equal(t, 80.0, primary.BestPrice.Min)
}

func TestMerge_BackfillsPlaceholderImage(t *testing.T) {
	primary := &domain.AggregatedConcert{
		Concert: concert("tm-1", "Drake", "Crypto.com Arena", "Los Angeles", "2026-05-01"),
		Sources: []domain.Source{domain.SourceTicketmaster},
	}

	withImage := concert("sg-1", "Drake", "Crypto Arena", "Los Angeles", "2026-05-01")
	withImage.ImageURL = "https://sg/drake.jpg"
	Merge(primary, withImage, domain.SourceSeatGeek)

	assert.Equal(t, "https://sg/drake.jpg", primary.ImageURL)
}
