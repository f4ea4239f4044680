package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/normalize"
	"github.com/encoreapp/encore-server/internal/sources"
	"github.com/encoreapp/encore-server/internal/store"
	"github.com/encoreapp/encore-server/internal/taste"
)

const (
	// maxRecentArtists caps the recency list kept on the profile.
	maxRecentArtists = 10
	// maxTopGenres caps the ranked genre list kept on the profile.
	maxTopGenres = 20
	// maxManualLookups caps catalog enrichment per sync so a long
	// hand-typed list can't burn the rate budget.
	maxManualLookups = 10
)

// ArtistSource fetches listening data from a connected music service.
// Implemented by sources.Spotify.
type ArtistSource interface {
	Service() domain.ServiceID
	TopArtists(ctx context.Context, userToken string, limit int) ([]domain.RawArtistEntry, error)
	LookupArtist(ctx context.Context, name string) (domain.RawArtistEntry, bool, error)
}

// ProfileService builds and serves user music profiles. Profiles are
// rebuilt wholesale on every sync; manual picks survive rebuilds.
type ProfileService struct {
	store   *store.Store
	spotify ArtistSource // nil when no Spotify credentials are configured
	logger  *slog.Logger
}

// NewProfileService creates a profile service. spotify may be nil.
func NewProfileService(store *store.Store, spotify ArtistSource, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProfileService{store: store, spotify: spotify, logger: logger}
}

// Get returns the user's current music profile.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserMusicProfile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("no music profile yet; sync a service or add manual picks")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// SyncRequest carries the per-service tokens for a profile rebuild.
type SyncRequest struct {
	// SpotifyToken is the user's own bearer token. Empty skips Spotify.
	SpotifyToken string `json:"spotify_token,omitempty"`
}

// Sync rebuilds the user's profile from every available service plus
// manual picks. A service failing mid-sync degrades to the remaining
// sources rather than failing the whole rebuild, unless nothing at all
// contributed.
func (s *ProfileService) Sync(ctx context.Context, userID string, req SyncRequest) (*domain.UserMusicProfile, error) {
	var (
		lists  []taste.ServiceArtistList
		recent []string
	)

	if req.SpotifyToken != "" && s.spotify != nil {
		entries, err := s.spotify.TopArtists(ctx, req.SpotifyToken, 0)
		switch {
		case err != nil && domainerrors.Is(err, domainerrors.ErrUnauthorized):
			return nil, err
		case err != nil:
			s.logger.Warn("spotify sync failed", "user_id", userID, "error", err)
		default:
			lists = append(lists, taste.ServiceArtistList{
				Service: s.spotify.Service(),
				Artists: entries,
			})
			for i, e := range entries {
				if i == maxRecentArtists {
					break
				}
				recent = append(recent, e.Name)
			}
		}
	}

	picks, err := s.store.GetManualPicks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get manual picks: %w", err)
	}
	if manual := sources.ManualList(picks); len(manual.Artists) > 0 || len(manual.Genres) > 0 {
		s.enrichManual(ctx, &manual)
		lists = append(lists, manual)
	}

	if len(lists) == 0 {
		return nil, domainerrors.Validation("nothing to sync: connect a service or add manual picks first")
	}

	profile := s.buildProfile(userID, lists, recent)
	if err := s.store.ReplaceProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	s.logger.Info("profile synced",
		"user_id", userID,
		"services", len(lists),
		"artists", len(profile.TopArtists),
	)
	return profile, nil
}

// SetManualPicks replaces the user's hand-entered artists and genres,
// then rebuilds the profile from what's stored.
func (s *ProfileService) SetManualPicks(ctx context.Context, userID string, artists, genres []string) (*domain.ManualPicks, error) {
	picks := &domain.ManualPicks{
		UserID:  userID,
		Artists: trimNonEmpty(artists),
		Genres:  trimNonEmpty(genres),
	}
	if err := s.store.SaveManualPicks(ctx, picks); err != nil {
		return nil, fmt.Errorf("save manual picks: %w", err)
	}
	return picks, nil
}

// GetManualPicks returns the user's manual picks, empty when none set.
func (s *ProfileService) GetManualPicks(ctx context.Context, userID string) (*domain.ManualPicks, error) {
	return s.store.GetManualPicks(ctx, userID)
}

// enrichManual backfills genres and images for hand-typed artist names
// from the catalog. Best-effort: lookups that fail or miss leave the
// bare name in place.
func (s *ProfileService) enrichManual(ctx context.Context, list *taste.ServiceArtistList) {
	if s.spotify == nil {
		return
	}
	for i := range list.Artists {
		if i == maxManualLookups {
			break
		}
		entry := &list.Artists[i]
		if len(entry.Genres) > 0 {
			continue
		}
		found, ok, err := s.spotify.LookupArtist(ctx, entry.Name)
		if err != nil || !ok {
			continue
		}
		entry.Genres = found.Genres
		if entry.ImageURL == "" {
			entry.ImageURL = found.ImageURL
		}
		if entry.SourceID == "" {
			entry.SourceID = found.SourceID
		}
	}
}

func (s *ProfileService) buildProfile(userID string, lists []taste.ServiceArtistList, recent []string) *domain.UserMusicProfile {
	// Services rarely expose a ranked genre list of their own; most
	// genre signal rides on the artist entries.
	for i := range lists {
		lists[i].Genres = withDerivedGenres(lists[i])
	}
	genres := taste.AggregateGenres(lists)
	topGenres := make([]string, 0, min(len(genres), maxTopGenres))
	for i, g := range genres {
		if i == maxTopGenres {
			break
		}
		topGenres = append(topGenres, g.Name)
	}

	connected := make([]domain.ServiceID, 0, len(lists))
	for _, l := range lists {
		connected = append(connected, l.Service)
	}

	profile := &domain.UserMusicProfile{
		UserID:            userID,
		TopArtists:        taste.AggregateArtists(lists),
		TopGenres:         topGenres,
		RecentArtistNames: recent,
		ConnectedServices: connected,
	}
	profile.ID = userID
	return profile
}

// withDerivedGenres extends a service's explicit genre list with the
// tags its artists carry, most common first. Explicit genres keep
// their rank; derived ones never duplicate them.
func withDerivedGenres(list taste.ServiceArtistList) []string {
	out := append([]string(nil), list.Genres...)
	seen := make(map[string]bool, len(out))
	for _, g := range out {
		seen[normalize.Name(g)] = true
	}

	type tally struct {
		form  string
		count int
		first int
	}
	counts := make(map[string]*tally)
	for _, e := range list.Artists {
		for _, g := range e.Genres {
			key := normalize.Name(g)
			if key == "" || seen[key] {
				continue
			}
			t, ok := counts[key]
			if !ok {
				t = &tally{form: g, first: len(counts)}
				counts[key] = t
			}
			t.count++
		}
	}

	derived := make([]*tally, 0, len(counts))
	for _, t := range counts {
		derived = append(derived, t)
	}
	sort.Slice(derived, func(i, j int) bool {
		if derived[i].count != derived[j].count {
			return derived[i].count > derived[j].count
		}
		return derived[i].first < derived[j].first
	})
	for _, t := range derived {
		out = append(out, t.form)
	}
	return out
}

func trimNonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
