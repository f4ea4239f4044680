package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/normalize"
	"github.com/encoreapp/encore-server/internal/ratelimit"
)

const bandsintownBaseURL = "https://rest.bandsintown.com"

// Bandsintown has no city search; it is queried per artist, so a
// search fans out over the caller's artist list in small batches.
const (
	bandsintownBatchWidth = 3
	bandsintownBatchDelay = 250 * time.Millisecond

	// Cap on artists per search. The caller passes a profile's top
	// artists; anything past this is noise relative to the quota spent.
	bandsintownMaxArtists = 30
)

// Bandsintown looks up events per artist via the public REST API.
type Bandsintown struct {
	client  *resty.Client
	appID   string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewBandsintown creates a Bandsintown API client.
func NewBandsintown(appID string, opts Options) *Bandsintown {
	opts = opts.withDefaults()
	return &Bandsintown{
		client: resty.New().
			SetBaseURL(bandsintownBaseURL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		appID:   appID,
		limiter: ratelimit.New(opts.RPS, opts.Burst),
		logger:  opts.Logger,
	}
}

// Source implements Client.
func (b *Bandsintown) Source() domain.Source { return domain.SourceBandsintown }

// Close releases the rate limiter.
func (b *Bandsintown) Close() { b.limiter.Stop() }

type bitEvent struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Datetime string `json:"datetime"` // 2026-10-04T19:00:00
	Title    string `json:"title"`
	Venue    struct {
		Name      string `json:"name"`
		City      string `json:"city"`
		Region    string `json:"region"`
		Country   string `json:"country"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"venue"`
	Lineup []string `json:"lineup"`
}

// Search implements Client. Results are filtered to the query city,
// since the API only filters by artist and date.
func (b *Bandsintown) Search(ctx context.Context, q Query) ([]domain.Concert, error) {
	artists := q.Artists
	if len(artists) > bandsintownMaxArtists {
		artists = artists[:bandsintownMaxArtists]
	}
	if len(artists) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		concerts []domain.Concert
		seen     = make(map[string]bool)
	)

	for start := 0; start < len(artists); start += bandsintownBatchWidth {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + bandsintownBatchWidth
		if end > len(artists) {
			end = len(artists)
		}

		var wg sync.WaitGroup
		for _, artist := range artists[start:end] {
			wg.Add(1)
			go func(artist string) {
				defer wg.Done()
				events, err := b.artistEvents(ctx, artist, q)
				if err != nil {
					// One artist failing is not a source failure.
					b.logger.Debug("bandsintown artist lookup failed", "artist", artist, "error", err)
					return
				}
				mu.Lock()
				defer mu.Unlock()
				for _, c := range events {
					if !seen[c.ID] {
						seen[c.ID] = true
						concerts = append(concerts, c)
					}
				}
			}(artist)
		}
		wg.Wait()

		if end < len(artists) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(bandsintownBatchDelay):
			}
		}
	}

	b.logger.Debug("bandsintown search complete",
		"city", q.City,
		"artists", len(artists),
		"events", len(concerts),
	)
	return concerts, nil
}

func (b *Bandsintown) artistEvents(ctx context.Context, artist string, q Query) ([]domain.Concert, error) {
	if err := b.limiter.Wait(ctx, string(domain.SourceBandsintown)); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var events []bitEvent
	resp, err := b.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"app_id": b.appID,
			"date":   q.DateFrom + "," + q.DateTo,
		}).
		SetResult(&events).
		Get("/artists/" + url.PathEscape(artist) + "/events")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil // unknown artist
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bandsintown returned %d", resp.StatusCode())
	}

	wantCity := normalize.Name(q.City)
	var concerts []domain.Concert
	for _, ev := range events {
		if wantCity != "" && normalize.Name(ev.Venue.City) != wantCity {
			continue
		}
		concerts = append(concerts, b.toConcert(ev, artist))
	}
	return concerts, nil
}

func (b *Bandsintown) toConcert(ev bitEvent, artist string) domain.Concert {
	c := domain.Concert{
		ID:        "bit-" + ev.ID,
		Name:      ev.Title,
		TicketURL: ev.URL,
		Artists:   ev.Lineup,
		Venue: domain.Venue{
			Name:    ev.Venue.Name,
			City:    ev.Venue.City,
			State:   ev.Venue.Region,
			Country: ev.Venue.Country,
		},
	}

	if len(c.Artists) == 0 {
		c.Artists = []string{artist}
	}
	if c.Name == "" {
		c.Name = artist + " at " + ev.Venue.Name
	}

	lat, latErr := strconv.ParseFloat(ev.Venue.Latitude, 64)
	lng, lngErr := strconv.ParseFloat(ev.Venue.Longitude, 64)
	if latErr == nil && lngErr == nil {
		c.Venue.Location = &domain.GeoPoint{Lat: lat, Lng: lng}
	}

	if len(ev.Datetime) >= 10 {
		c.Date = ev.Datetime[:10]
	}
	if idx := strings.IndexByte(ev.Datetime, 'T'); idx >= 0 && len(ev.Datetime) >= idx+6 {
		c.Time = ev.Datetime[idx+1 : idx+6]
	}

	return c
}
