package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
)

func TestTicketmaster_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "music", r.URL.Query().Get("classificationName"))
		assert.Equal(t, "Austin", r.URL.Query().Get("city"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"_embedded": {
				"events": [{
					"id": "ev1",
					"name": "Neon Coast: Coastline Tour",
					"url": "https://tickets.example.com/ev1",
					"info": "<p>An <b>intimate</b> evening.</p>",
					"images": [
						{"url": "https://img.example.com/small.jpg", "width": 200},
						{"url": "https://img.example.com/big.jpg", "width": 1024}
					],
					"dates": {"start": {"localDate": "2026-10-04", "localTime": "19:30:00"}},
					"priceRanges": [{"min": 35, "max": 75}],
					"classifications": [{"genre": {"name": "Rock"}, "subGenre": {"name": "Indie Rock"}}],
					"_embedded": {
						"venues": [{
							"name": "The Parish",
							"city": {"name": "Austin"},
							"state": {"stateCode": "TX"},
							"country": {"countryCode": "US"},
							"location": {"latitude": "30.2672", "longitude": "-97.7431"}
						}],
						"attractions": [{"name": "Neon Coast"}, {"name": "Glass Harbor"}]
					}
				}]
			}
		}`))
	}))
	defer server.Close()

	tm := NewTicketmaster("test-key", Options{})
	defer tm.Close()
	tm.client.SetBaseURL(server.URL)

	concerts, err := tm.Search(context.Background(), Query{
		City:     "Austin",
		DateFrom: "2026-10-01",
		DateTo:   "2026-10-31",
	})
	require.NoError(t, err)
	require.Len(t, concerts, 1)

	c := concerts[0]
	assert.Equal(t, "tm-ev1", c.ID)
	assert.Equal(t, "Neon Coast: Coastline Tour", c.Name)
	assert.Equal(t, []string{"Neon Coast", "Glass Harbor"}, c.Artists)
	assert.Equal(t, "2026-10-04", c.Date)
	assert.Equal(t, "19:30", c.Time)
	assert.Equal(t, "The Parish", c.Venue.Name)
	assert.Equal(t, "TX", c.Venue.State)
	require.NotNil(t, c.Venue.Location)
	assert.InDelta(t, 30.2672, c.Venue.Location.Lat, 0.001)
	require.NotNil(t, c.PriceRange)
	assert.Equal(t, float64(35), c.PriceRange.Min)
	assert.Equal(t, []string{"rock", "indie rock"}, c.Genres)
	assert.Equal(t, "https://img.example.com/big.jpg", c.ImageURL)
	// HTML blurbs come back as markdown
	assert.Contains(t, c.Description, "**intimate**")
}

func TestTicketmaster_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	tm := NewTicketmaster("test-key", Options{})
	defer tm.Close()
	tm.client.SetBaseURL(server.URL)

	_, err := tm.Search(context.Background(), Query{City: "Austin", DateFrom: "2026-10-01", DateTo: "2026-10-31"})
	require.Error(t, err)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeUpstream, derr.Code)
}

func TestSeatGeek_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "cid", r.URL.Query().Get("client_id"))
		assert.Equal(t, "concert", r.URL.Query().Get("taxonomies.name"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"events": [{
				"id": 42,
				"title": "Velvet Meridian Live",
				"url": "https://seatgeek.example.com/42",
				"datetime_local": "2026-10-05T20:00:00",
				"venue": {
					"name": "Mohawk",
					"city": "Austin",
					"state": "TX",
					"country": "US",
					"location": {"lat": 30.27, "lon": -97.73}
				},
				"performers": [
					{"name": "Velvet Meridian", "image": "https://img.example.com/vm.jpg", "genres": [{"name": "Shoegaze"}]}
				],
				"stats": {"lowest_price": 25, "highest_price": 40}
			}]
		}`))
	}))
	defer server.Close()

	sg := NewSeatGeek("cid", "secret", Options{})
	defer sg.Close()
	sg.client.SetBaseURL(server.URL)

	concerts, err := sg.Search(context.Background(), Query{City: "Austin", DateFrom: "2026-10-01", DateTo: "2026-10-31"})
	require.NoError(t, err)
	require.Len(t, concerts, 1)

	c := concerts[0]
	assert.Equal(t, "sg-42", c.ID)
	assert.Equal(t, "2026-10-05", c.Date)
	assert.Equal(t, "20:00", c.Time)
	assert.Equal(t, []string{"Velvet Meridian"}, c.Artists)
	assert.Equal(t, []string{"shoegaze"}, c.Genres)
	assert.Equal(t, "https://img.example.com/vm.jpg", c.ImageURL)
	require.NotNil(t, c.PriceRange)
	assert.Equal(t, float64(25), c.PriceRange.Min)
}

func TestBandsintown_Search_FiltersCity(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/artists/Neon%20Coast/events", "/artists/Neon Coast/events":
			w.Write([]byte(`[
				{"id": "1", "url": "https://bit.example.com/1", "datetime": "2026-10-04T19:00:00",
				 "venue": {"name": "The Parish", "city": "Austin", "region": "TX", "country": "United States"},
				 "lineup": ["Neon Coast"]},
				{"id": "2", "url": "https://bit.example.com/2", "datetime": "2026-10-06T19:00:00",
				 "venue": {"name": "Elsewhere", "city": "Denver", "region": "CO", "country": "United States"},
				 "lineup": ["Neon Coast"]}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{}`))
		}
	}))
	defer server.Close()

	bit := NewBandsintown("app-id", Options{})
	defer bit.Close()
	bit.client.SetBaseURL(server.URL)

	concerts, err := bit.Search(context.Background(), Query{
		City:     "Austin",
		DateFrom: "2026-10-01",
		DateTo:   "2026-10-31",
		Artists:  []string{"Neon Coast", "Unknown Artist"},
	})
	require.NoError(t, err)
	require.Len(t, concerts, 1)
	assert.Equal(t, "bit-1", concerts[0].ID)
	assert.Equal(t, "Austin", concerts[0].Venue.City)
	// Unknown artists 404 quietly
	assert.Equal(t, int32(2), requests.Load())
}

func TestBandsintown_Search_NoArtists(t *testing.T) {
	bit := NewBandsintown("app-id", Options{})
	defer bit.Close()

	concerts, err := bit.Search(context.Background(), Query{City: "Austin"})
	require.NoError(t, err)
	assert.Empty(t, concerts)
}

// stubClient implements Client for fan-out and breaker tests.
type stubClient struct {
	source   domain.Source
	concerts []domain.Concert
	err      error
	calls    atomic.Int32
}

func (s *stubClient) Source() domain.Source { return s.source }

func (s *stubClient) Search(ctx context.Context, q Query) ([]domain.Concert, error) {
	s.calls.Add(1)
	return s.concerts, s.err
}

func TestFanout_IsolatesFailures(t *testing.T) {
	ok := &stubClient{
		source:   domain.SourceTicketmaster,
		concerts: []domain.Concert{{ID: "tm-1", Name: "Show"}},
	}
	broken := &stubClient{
		source: domain.SourceSeatGeek,
		err:    domainerrors.Upstream("seatgeek down"),
	}

	f := NewFanout(nil, ok, broken)
	bySource, failed := f.Search(context.Background(), Query{City: "Austin"})

	require.Len(t, bySource, 1)
	assert.Len(t, bySource[domain.SourceTicketmaster], 1)
	require.Len(t, failed, 1)
	assert.Equal(t, domain.SourceSeatGeek, failed[0])
}

func TestWithBreaker_OpensAfterFailures(t *testing.T) {
	broken := &stubClient{
		source: domain.SourceSeatGeek,
		err:    domainerrors.Upstream("down"),
	}
	client := WithBreaker(broken, nil)
	ctx := context.Background()

	// 5 failures at 100% failure rate trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := client.Search(ctx, Query{City: "Austin"})
		require.Error(t, err)
	}

	calls := broken.calls.Load()
	_, err := client.Search(ctx, Query{City: "Austin"})
	require.Error(t, err)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeUnavailable, derr.Code)
	// The open breaker short-circuits without calling the provider.
	assert.Equal(t, calls, broken.calls.Load())
}

func TestMarkdownify(t *testing.T) {
	assert.Equal(t, "plain text", markdownify("plain text"))
	assert.Equal(t, "", markdownify(""))
	assert.Contains(t, markdownify("<p>Doors at <b>7pm</b></p>"), "**7pm**")
}

func TestAppendGenre(t *testing.T) {
	genres := appendGenre(nil, "Rock")
	genres = appendGenre(genres, "rock") // duplicate, case-insensitive
	genres = appendGenre(genres, "Undefined")
	genres = appendGenre(genres, "")
	genres = appendGenre(genres, "Indie Rock")
	assert.Equal(t, []string{"rock", "indie rock"}, genres)
}

func TestSpotify_TopArtists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/me/top/artists", r.URL.Path)
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"id": "sp1", "name": "Neon Coast", "genres": ["Indie Rock"], "popularity": 62,
				 "images": [{"url": "https://img.example.com/nc.jpg"}]},
				{"id": "sp2", "name": "Glass Harbor", "genres": [], "popularity": 48, "images": []}
			]
		}`))
	}))
	defer server.Close()

	sp := NewSpotify("cid", "secret", Options{})
	defer sp.Close()
	sp.client.SetBaseURL(server.URL)

	entries, err := sp.TopArtists(context.Background(), "user-token", 50)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Neon Coast", entries[0].Name)
	assert.Equal(t, "sp1", entries[0].SourceID)
	assert.Equal(t, []string{"indie rock"}, entries[0].Genres)
	assert.Equal(t, "https://img.example.com/nc.jpg", entries[0].ImageURL)
}

func TestSpotify_TopArtists_BadToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sp := NewSpotify("cid", "secret", Options{})
	defer sp.Close()
	sp.client.SetBaseURL(server.URL)

	_, err := sp.TopArtists(context.Background(), "stale", 10)
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeUnauthorized, derr.Code)
}

func TestManualList(t *testing.T) {
	list := ManualList(&domain.ManualPicks{
		Artists: []string{"Neon Coast", "  ", "Glass Harbor"},
		Genres:  []string{"Indie Rock", "indie rock"},
	})
	assert.Equal(t, domain.ServiceManual, list.Service)
	require.Len(t, list.Artists, 2)
	assert.Equal(t, "Neon Coast", list.Artists[0].Name)
	assert.Equal(t, []string{"indie rock"}, list.Genres)

	empty := ManualList(nil)
	assert.Empty(t, empty.Artists)
}
