package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/ratelimit"
)

const ticketmasterBaseURL = "https://app.ticketmaster.com/discovery/v2"

// Ticketmaster searches the Discovery API for music events by city and
// date range.
type Ticketmaster struct {
	client  *resty.Client
	apiKey  string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewTicketmaster creates a Discovery API client.
func NewTicketmaster(apiKey string, opts Options) *Ticketmaster {
	opts = opts.withDefaults()
	return &Ticketmaster{
		client: resty.New().
			SetBaseURL(ticketmasterBaseURL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		apiKey:  apiKey,
		limiter: ratelimit.New(opts.RPS, opts.Burst),
		logger:  opts.Logger,
	}
}

// Source implements Client.
func (t *Ticketmaster) Source() domain.Source { return domain.SourceTicketmaster }

// Close releases the rate limiter.
func (t *Ticketmaster) Close() { t.limiter.Stop() }

type tmEnvelope struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Info   string `json:"info"`
	Images []struct {
		URL   string `json:"url"`
		Width int    `json:"width"`
	} `json:"images"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	PriceRanges []struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"priceRanges"`
	Classifications []struct {
		Genre struct {
			Name string `json:"name"`
		} `json:"genre"`
		SubGenre struct {
			Name string `json:"name"`
		} `json:"subGenre"`
	} `json:"classifications"`
	Embedded struct {
		Venues      []tmVenue `json:"venues"`
		Attractions []struct {
			Name string `json:"name"`
		} `json:"attractions"`
	} `json:"_embedded"`
}

type tmVenue struct {
	Name string `json:"name"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Country struct {
		CountryCode string `json:"countryCode"`
	} `json:"country"`
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
}

// Search implements Client.
func (t *Ticketmaster) Search(ctx context.Context, q Query) ([]domain.Concert, error) {
	if err := t.limiter.Wait(ctx, string(domain.SourceTicketmaster)); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var envelope tmEnvelope
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"apikey":             t.apiKey,
			"classificationName": "music",
			"city":               q.City,
			"startDateTime":      q.DateFrom + "T00:00:00Z",
			"endDateTime":        q.DateTo + "T23:59:59Z",
			"size":               "100",
			"sort":               "date,asc",
		}).
		SetResult(&envelope).
		Get("/events.json")
	if err != nil {
		return nil, errors.Upstreamf("ticketmaster request failed: %v", err)
	}
	if resp.StatusCode() == http.StatusTooManyRequests {
		return nil, errors.Upstream("ticketmaster rate limited")
	}
	if resp.IsError() {
		return nil, errors.Upstreamf("ticketmaster returned %d", resp.StatusCode())
	}

	concerts := make([]domain.Concert, 0, len(envelope.Embedded.Events))
	for _, ev := range envelope.Embedded.Events {
		concerts = append(concerts, t.toConcert(ev))
	}
	t.logger.Debug("ticketmaster search complete", "city", q.City, "events", len(concerts))
	return concerts, nil
}

func (t *Ticketmaster) toConcert(ev tmEvent) domain.Concert {
	c := domain.Concert{
		ID:          "tm-" + ev.ID,
		Name:        ev.Name,
		TicketURL:   ev.URL,
		Date:        ev.Dates.Start.LocalDate,
		Time:        ev.Dates.Start.LocalTime,
		Description: markdownify(ev.Info),
	}
	if len(c.Time) > 5 {
		c.Time = c.Time[:5] // HH:MM:SS -> HH:MM
	}

	for _, a := range ev.Embedded.Attractions {
		if a.Name != "" {
			c.Artists = append(c.Artists, a.Name)
		}
	}

	if len(ev.Embedded.Venues) > 0 {
		v := ev.Embedded.Venues[0]
		c.Venue = domain.Venue{
			Name:    v.Name,
			City:    v.City.Name,
			State:   v.State.StateCode,
			Country: v.Country.CountryCode,
		}
		lat, latErr := strconv.ParseFloat(v.Location.Latitude, 64)
		lng, lngErr := strconv.ParseFloat(v.Location.Longitude, 64)
		if latErr == nil && lngErr == nil {
			c.Venue.Location = &domain.GeoPoint{Lat: lat, Lng: lng}
		}
	}

	if len(ev.PriceRanges) > 0 {
		c.PriceRange = &domain.PriceRange{
			Min: ev.PriceRanges[0].Min,
			Max: ev.PriceRanges[0].Max,
		}
	}

	for _, cl := range ev.Classifications {
		c.Genres = appendGenre(c.Genres, cl.Genre.Name)
		c.Genres = appendGenre(c.Genres, cl.SubGenre.Name)
	}

	// Widest image wins; Ticketmaster ships many crops of the same art.
	bestWidth := 0
	for _, img := range ev.Images {
		if img.Width > bestWidth {
			bestWidth = img.Width
			c.ImageURL = img.URL
		}
	}

	return c
}
