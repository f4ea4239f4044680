package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/ratelimit"
)

const (
	spotifyBaseURL  = "https://api.spotify.com/v1"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	spotifyTopArtistsMax = 50
)

// Spotify fetches listening data from the Web API. Personal endpoints
// (top artists) use the caller-supplied user token; catalog lookups use
// the app's client-credentials token.
type Spotify struct {
	client  *resty.Client
	creds   *clientcredentials.Config
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger
}

// NewSpotify creates a Web API client with the app's credentials.
func NewSpotify(clientID, clientSecret string, opts Options) *Spotify {
	opts = opts.withDefaults()
	return &Spotify{
		client: resty.New().
			SetBaseURL(spotifyBaseURL).
			SetTimeout(opts.Timeout).
			SetHeader("Accept", "application/json"),
		creds: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		},
		limiter: ratelimit.New(opts.RPS, opts.Burst),
		logger:  opts.Logger,
	}
}

// Service identifies this connector for profile aggregation.
func (s *Spotify) Service() domain.ServiceID { return domain.ServiceSpotify }

// Close releases the rate limiter.
func (s *Spotify) Close() { s.limiter.Stop() }

type spotifyArtist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (a spotifyArtist) toEntry() domain.RawArtistEntry {
	entry := domain.RawArtistEntry{
		Name:       a.Name,
		SourceID:   a.ID,
		Popularity: a.Popularity,
	}
	for _, g := range a.Genres {
		entry.Genres = appendGenre(entry.Genres, g)
	}
	if len(a.Images) > 0 {
		entry.ImageURL = a.Images[0].URL
	}
	return entry
}

// TopArtists returns the user's ranked top artists. userToken is the
// user's own bearer token; token refresh lives with the caller.
func (s *Spotify) TopArtists(ctx context.Context, userToken string, limit int) ([]domain.RawArtistEntry, error) {
	if limit <= 0 || limit > spotifyTopArtistsMax {
		limit = spotifyTopArtistsMax
	}
	if err := s.limiter.Wait(ctx, string(domain.ServiceSpotify)); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var result struct {
		Items []spotifyArtist `json:"items"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(userToken).
		SetQueryParams(map[string]string{
			"limit":      fmt.Sprintf("%d", limit),
			"time_range": "medium_term",
		}).
		SetResult(&result).
		Get("/me/top/artists")
	if err != nil {
		return nil, errors.Upstreamf("spotify request failed: %v", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, errors.Unauthorized("spotify token rejected")
	}
	if resp.IsError() {
		return nil, errors.Upstreamf("spotify returned %d", resp.StatusCode())
	}

	entries := make([]domain.RawArtistEntry, 0, len(result.Items))
	for _, item := range result.Items {
		entries = append(entries, item.toEntry())
	}
	s.logger.Debug("spotify top artists fetched", "count", len(entries))
	return entries, nil
}

// LookupArtist resolves an artist name against the catalog using the
// app token, for enriching manual picks with genres and images.
func (s *Spotify) LookupArtist(ctx context.Context, name string) (domain.RawArtistEntry, bool, error) {
	if err := s.limiter.Wait(ctx, string(domain.ServiceSpotify)); err != nil {
		return domain.RawArtistEntry{}, false, fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := s.creds.Token(ctx)
	if err != nil {
		return domain.RawArtistEntry{}, false, errors.Upstreamf("spotify app token: %v", err)
	}

	var result struct {
		Artists struct {
			Items []spotifyArtist `json:"items"`
		} `json:"artists"`
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetQueryParams(map[string]string{
			"q":     name,
			"type":  "artist",
			"limit": "1",
		}).
		SetResult(&result).
		Get("/search")
	if err != nil {
		return domain.RawArtistEntry{}, false, errors.Upstreamf("spotify request failed: %v", err)
	}
	if resp.IsError() {
		return domain.RawArtistEntry{}, false, errors.Upstreamf("spotify returned %d", resp.StatusCode())
	}

	if len(result.Artists.Items) == 0 {
		return domain.RawArtistEntry{}, false, nil
	}
	return result.Artists.Items[0].toEntry(), true, nil
}
