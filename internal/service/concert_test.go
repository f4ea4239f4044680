package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/sources"
)

// stubSearcher returns canned listings and counts invocations so cache
// behavior is observable.
type stubSearcher struct {
	bySource map[domain.Source][]domain.Concert
	failed   []domain.Source
	calls    atomic.Int32
}

func (s *stubSearcher) Search(ctx context.Context, q sources.Query) (map[domain.Source][]domain.Concert, []domain.Source) {
	s.calls.Add(1)
	return s.bySource, s.failed
}

func seattleListings() map[domain.Source][]domain.Concert {
	return map[domain.Source][]domain.Concert{
		domain.SourceTicketmaster: {
			{
				ID:      "tm-1",
				Name:    "Neon Coast Live",
				Artists: []string{"Neon Coast"},
				Venue:   domain.Venue{Name: "The Showbox", City: "Seattle"},
				Date:    "2026-09-10",
				Genres:  []string{"indie rock"},
			},
			{
				ID:      "tm-2",
				Name:    "An Evening of Chamber Music",
				Artists: []string{"City Quartet"},
				Venue:   domain.Venue{Name: "Benaroya Hall", City: "Seattle"},
				Date:    "2026-09-05",
				Genres:  []string{"classical"},
			},
		},
		domain.SourceSeatGeek: {
			// Same real-world event as tm-1, listed by a second source.
			{
				ID:      "sg-9",
				Name:    "Neon Coast",
				Artists: []string{"Neon Coast"},
				Venue:   domain.Venue{Name: "The Showbox", City: "Seattle"},
				Date:    "2026-09-10",
			},
		},
	}
}

func TestConcertSearch_DedupesAndScores(t *testing.T) {
	st := newTestStore(t)
	stub := &stubSearcher{bySource: seattleListings()}
	svc := NewConcertService(st, stub, nil)
	ctx := context.Background()

	seedUser(t, st, "user-a", "Ada")
	seedProfile(t, st, "user-a", []string{"Neon Coast"}, []string{"indie rock"})

	req := ConcertSearchRequest{City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30"}
	concerts, err := svc.Search(ctx, "user-a", req)
	require.NoError(t, err)
	require.Len(t, concerts, 2, "cross-source duplicate folds into one event")

	// The matched concert ranks first and carries both sources.
	top := concerts[0]
	assert.Equal(t, "tm-1", top.ID)
	assert.Greater(t, top.MatchScore, 0.0)
	assert.NotEmpty(t, top.MatchReasons)
	assert.ElementsMatch(t, []domain.Source{domain.SourceTicketmaster, domain.SourceSeatGeek}, top.Sources)

	// The unmatched concert is kept, ranked last, unscored.
	assert.Equal(t, "tm-2", concerts[1].ID)
	assert.Zero(t, concerts[1].MatchScore)
}

func TestConcertSearch_CachesAggregation(t *testing.T) {
	st := newTestStore(t)
	stub := &stubSearcher{bySource: seattleListings()}
	svc := NewConcertService(st, stub, nil)
	ctx := context.Background()

	seedUser(t, st, "user-a", "Ada")
	req := ConcertSearchRequest{City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30"}

	_, err := svc.Search(ctx, "user-a", req)
	require.NoError(t, err)
	_, err = svc.Search(ctx, "user-a", req)
	require.NoError(t, err)

	assert.Equal(t, int32(1), stub.calls.Load(), "second search hits the cache")

	// A different window misses.
	req.DateTo = "2026-10-31"
	_, err = svc.Search(ctx, "user-a", req)
	require.NoError(t, err)
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestConcertSearch_NoProfileStillReturns(t *testing.T) {
	st := newTestStore(t)
	svc := NewConcertService(st, &stubSearcher{bySource: seattleListings()}, nil)
	ctx := context.Background()

	seedUser(t, st, "user-new", "New")
	concerts, err := svc.Search(ctx, "user-new", ConcertSearchRequest{
		City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30",
	})
	require.NoError(t, err)
	require.Len(t, concerts, 2)
	// Without a profile the list is date-ordered and unscored.
	assert.Equal(t, "tm-2", concerts[0].ID)
	assert.Zero(t, concerts[0].MatchScore)
}

func TestConcertSearch_Validation(t *testing.T) {
	svc := NewConcertService(newTestStore(t), &stubSearcher{}, nil)
	ctx := context.Background()

	_, err := svc.Search(ctx, "user-a", ConcertSearchRequest{City: "", DateFrom: "2026-09-01", DateTo: "2026-09-30"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.Search(ctx, "user-a", ConcertSearchRequest{City: "Seattle", DateFrom: "2026-09-30", DateTo: "2026-09-01"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.Search(ctx, "user-a", ConcertSearchRequest{City: "Seattle", DateFrom: "September 1", DateTo: "2026-09-30"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestConcertSearch_AllSourcesDown(t *testing.T) {
	stub := &stubSearcher{failed: []domain.Source{domain.SourceTicketmaster, domain.SourceSeatGeek}}
	svc := NewConcertService(newTestStore(t), stub, nil)

	_, err := svc.Search(context.Background(), "user-a", ConcertSearchRequest{
		City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30",
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestSearchForGroup(t *testing.T) {
	st := newTestStore(t)
	svc := NewConcertService(st, &stubSearcher{bySource: seattleListings()}, nil)
	ctx := context.Background()

	seedUser(t, st, "user-a", "Ada")
	seedUser(t, st, "user-b", "Grace")
	seedProfile(t, st, "user-a", []string{"Neon Coast"}, []string{"indie rock"})
	seedProfile(t, st, "user-b", []string{"Static Fields"}, []string{"indie rock"})

	groups := NewGroupService(st, nil)
	group, err := groups.Create(ctx, "user-a", CreateGroupRequest{Name: "Crew"})
	require.NoError(t, err)
	_, err = groups.Join(ctx, "user-b", group.InviteKey)
	require.NoError(t, err)

	req := ConcertSearchRequest{City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30"}
	matches, err := svc.SearchForGroup(ctx, "user-a", group.ID, req)
	require.NoError(t, err)

	// Only the indie rock show matches anyone; the chamber concert drops.
	require.Len(t, matches, 1)
	assert.Equal(t, "tm-1", matches[0].ID)
	assert.Equal(t, 2, matches[0].GroupMatch.MatchedMembers)
	assert.Equal(t, domain.MatchUniversal, matches[0].GroupMatch.Level)

	// Non-members are rejected.
	seedUser(t, st, "user-x", "Mallory")
	_, err = svc.SearchForGroup(ctx, "user-x", group.ID, req)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}
