package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/encoreapp/encore-server/internal/dedupe"
	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/metrics"
	"github.com/encoreapp/encore-server/internal/sources"
	"github.com/encoreapp/encore-server/internal/store"
	"github.com/encoreapp/encore-server/internal/taste"
)

// concertCacheTTL is how long a city/date-window aggregation stays
// fresh. Listings change slowly; scores are computed per request and
// never cached.
const concertCacheTTL = 6 * time.Hour

// ConcertSearcher fans a query out to the ticketing providers.
// Implemented by sources.Fanout.
type ConcertSearcher interface {
	Search(ctx context.Context, q sources.Query) (map[domain.Source][]domain.Concert, []domain.Source)
}

// ConcertService aggregates concert listings across ticketing sources
// and scores them against user and group taste profiles.
type ConcertService struct {
	store    *store.Store
	searcher ConcertSearcher
	logger   *slog.Logger
}

// NewConcertService creates a concert discovery service.
func NewConcertService(store *store.Store, searcher ConcertSearcher, logger *slog.Logger) *ConcertService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ConcertService{store: store, searcher: searcher, logger: logger}
}

// ConcertSearchRequest scopes a concert search.
type ConcertSearchRequest struct {
	City     string `json:"city" validate:"required,max=100"`
	DateFrom string `json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"required,datetime=2006-01-02"`
	// Artists narrows artist-keyed providers; when empty, the user's
	// top artists are used.
	Artists []string `json:"artists,omitempty"`
}

// Search returns deduplicated concerts for a city and date window,
// scored against the user's profile and sorted by match strength.
// Unmatched concerts are kept, ranked last in date order. A user with
// no profile gets the unscored list.
func (s *ConcertService) Search(ctx context.Context, userID string, req ConcertSearchRequest) ([]domain.AggregatedConcert, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.DateTo < req.DateFrom {
		return nil, domainerrors.Validation("date_to must not be before date_from")
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	concerts, err := s.aggregated(ctx, profile, req)
	if err != nil {
		return nil, err
	}

	scoreAndSort(concerts, profile)
	return concerts, nil
}

// GroupConcert is a concert scored against a whole group.
type GroupConcert struct {
	domain.AggregatedConcert
	GroupMatch domain.GroupMatch `json:"group_match"`
}

// SearchForGroup returns concerts scored against every member of the
// group, sorted by group score. Only concerts at least one member
// matched are returned.
func (s *ConcertService) SearchForGroup(ctx context.Context, userID, groupID string, req ConcertSearchRequest) ([]GroupConcert, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("group not found")
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	if !group.HasMember(userID) {
		return nil, domainerrors.Forbidden("not a member of this group")
	}

	members, err := loadMembers(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	concerts, err := s.aggregated(ctx, nil, req)
	if err != nil {
		return nil, err
	}

	out := make([]GroupConcert, 0, len(concerts))
	for _, c := range concerts {
		match := taste.GroupMatchScore(c.Artists, c.Genres, members)
		if match.MatchedMembers == 0 {
			continue
		}
		out = append(out, GroupConcert{AggregatedConcert: c, GroupMatch: match})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GroupMatch.Score > out[j].GroupMatch.Score
	})
	return out, nil
}

// aggregated returns the canonical concert list for the window, from
// cache when fresh. The cached form is unscored; match fields are
// per-viewer.
func (s *ConcertService) aggregated(ctx context.Context, profile *domain.UserMusicProfile, req ConcertSearchRequest) ([]domain.AggregatedConcert, error) {
	key := store.ConcertCacheKey(req.City, req.DateFrom, req.DateTo)
	if cached, err := s.store.CachedConcerts(ctx, key); err == nil {
		metrics.RecordCacheHit("concerts")
		return cached, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("concert cache read failed", "key", key, "error", err)
	}
	metrics.RecordCacheMiss("concerts")

	artists := req.Artists
	if len(artists) == 0 && profile != nil {
		artists = profile.ArtistNames()
	}

	bySource, failed := s.searcher.Search(ctx, sources.Query{
		City:     req.City,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
		Artists:  artists,
	})
	if len(bySource) == 0 {
		if len(failed) > 0 {
			return nil, domainerrors.Unavailable("all ticketing sources are unavailable")
		}
		return nil, nil
	}

	before := 0
	for _, cs := range bySource {
		before += len(cs)
	}
	concerts := dedupe.Fold(bySource, domain.DefaultSourceOrder)
	metrics.ConcertsDeduplicated.Add(float64(before - len(concerts)))

	if err := s.store.CacheConcerts(ctx, key, concerts, concertCacheTTL); err != nil {
		s.logger.Warn("concert cache write failed", "key", key, "error", err)
	}
	return concerts, nil
}

// scoreAndSort attaches per-viewer match fields and orders the list:
// matched concerts by score descending, unmatched last in date order.
func scoreAndSort(concerts []domain.AggregatedConcert, profile *domain.UserMusicProfile) {
	if profile == nil {
		sort.SliceStable(concerts, func(i, j int) bool {
			return concerts[i].Date < concerts[j].Date
		})
		return
	}

	for i := range concerts {
		score, reasons := taste.ScoreConcert(taste.Candidate{
			Artists: concerts[i].Artists,
			Genres:  concerts[i].Genres,
		}, profile)
		concerts[i].MatchScore = score
		concerts[i].MatchReasons = reasons
	}

	sort.SliceStable(concerts, func(i, j int) bool {
		si, sj := concerts[i].MatchScore, concerts[j].MatchScore
		if (si > 0) != (sj > 0) {
			return si > 0
		}
		if si != sj {
			return si > sj
		}
		return concerts[i].Date < concerts[j].Date
	})
}

// loadMembers resolves a group's members into taste profiles. Members
// without a profile participate with a nil profile (they match nothing).
func loadMembers(ctx context.Context, st *store.Store, group *domain.Group) ([]taste.Member, error) {
	members := make([]taste.Member, 0, len(group.Members))
	for _, gm := range group.Members {
		m := taste.Member{UserID: gm.UserID, Name: gm.Name}
		profile, err := st.GetProfile(ctx, gm.UserID)
		switch {
		case err == nil:
			m.Profile = profile
		case errors.Is(err, store.ErrNotFound):
			// keep nil profile
		default:
			return nil, fmt.Errorf("get profile for %s: %w", gm.UserID, err)
		}
		members = append(members, m)
	}
	return members, nil
}
