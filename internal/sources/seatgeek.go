package sources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/ratelimit"
)

const seatGeekBaseURL = "https://api.seatgeek.com/2"

// SeatGeek searches the events API for concerts by city and date range.
type SeatGeek struct {
	client       *resty.Client
	clientID     string
	clientSecret string
	limiter      *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewSeatGeek creates a SeatGeek API client.
func NewSeatGeek(clientID, clientSecret string, opts Options) *SeatGeek {
	opts = opts.withDefaults()
	return &SeatGeek{
		client: resty.New().
			SetBaseURL(seatGeekBaseURL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		clientID:     clientID,
		clientSecret: clientSecret,
		limiter:      ratelimit.New(opts.RPS, opts.Burst),
		logger:       opts.Logger,
	}
}

// Source implements Client.
func (s *SeatGeek) Source() domain.Source { return domain.SourceSeatGeek }

// Close releases the rate limiter.
func (s *SeatGeek) Close() { s.limiter.Stop() }

type sgEnvelope struct {
	Events []sgEvent `json:"events"`
}

type sgEvent struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	DatetimeLocal string `json:"datetime_local"` // 2026-10-04T19:00:00
	Venue         struct {
		Name     string `json:"name"`
		City     string `json:"city"`
		State    string `json:"state"`
		Country  string `json:"country"`
		Location struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"location"`
	} `json:"venue"`
	Performers []struct {
		Name   string   `json:"name"`
		Image  string   `json:"image"`
		Genres []struct {
			Name string `json:"name"`
		} `json:"genres"`
	} `json:"performers"`
	Stats struct {
		LowestPrice  float64 `json:"lowest_price"`
		HighestPrice float64 `json:"highest_price"`
	} `json:"stats"`
}

// Search implements Client.
func (s *SeatGeek) Search(ctx context.Context, q Query) ([]domain.Concert, error) {
	if err := s.limiter.Wait(ctx, string(domain.SourceSeatGeek)); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var envelope sgEnvelope
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"client_id":          s.clientID,
			"client_secret":      s.clientSecret,
			"taxonomies.name":    "concert",
			"venue.city":         q.City,
			"datetime_local.gte": q.DateFrom,
			"datetime_local.lte": q.DateTo + "T23:59:59",
			"per_page":           "100",
		}).
		SetResult(&envelope).
		Get("/events")
	if err != nil {
		return nil, errors.Upstreamf("seatgeek request failed: %v", err)
	}
	if resp.IsError() {
		return nil, errors.Upstreamf("seatgeek returned %d", resp.StatusCode())
	}

	concerts := make([]domain.Concert, 0, len(envelope.Events))
	for _, ev := range envelope.Events {
		concerts = append(concerts, s.toConcert(ev))
	}
	s.logger.Debug("seatgeek search complete", "city", q.City, "events", len(concerts))
	return concerts, nil
}

func (s *SeatGeek) toConcert(ev sgEvent) domain.Concert {
	c := domain.Concert{
		ID:          fmt.Sprintf("sg-%d", ev.ID),
		Name:        ev.Title,
		TicketURL:   ev.URL,
		Description: markdownify(ev.Description),
		Venue: domain.Venue{
			Name:    ev.Venue.Name,
			City:    ev.Venue.City,
			State:   ev.Venue.State,
			Country: ev.Venue.Country,
		},
	}

	// datetime_local is "YYYY-MM-DDTHH:MM:SS"
	if len(ev.DatetimeLocal) >= 10 {
		c.Date = ev.DatetimeLocal[:10]
	}
	if idx := strings.IndexByte(ev.DatetimeLocal, 'T'); idx >= 0 && len(ev.DatetimeLocal) >= idx+6 {
		c.Time = ev.DatetimeLocal[idx+1 : idx+6]
	}

	if ev.Venue.Location.Lat != 0 || ev.Venue.Location.Lon != 0 {
		c.Venue.Location = &domain.GeoPoint{Lat: ev.Venue.Location.Lat, Lng: ev.Venue.Location.Lon}
	}

	for _, p := range ev.Performers {
		if p.Name != "" {
			c.Artists = append(c.Artists, p.Name)
		}
		if c.ImageURL == "" {
			c.ImageURL = p.Image
		}
		for _, g := range p.Genres {
			c.Genres = appendGenre(c.Genres, g.Name)
		}
	}

	if ev.Stats.LowestPrice > 0 {
		c.PriceRange = &domain.PriceRange{
			Min: ev.Stats.LowestPrice,
			Max: ev.Stats.HighestPrice,
		}
	}

	return c
}
