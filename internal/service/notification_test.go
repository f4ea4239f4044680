package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
)

func TestPrefs_DefaultsAndUpdate(t *testing.T) {
	st := newTestStore(t)
	svc := NewNotificationService(st, nil, nil)
	ctx := context.Background()

	// Unset users get the defaults.
	prefs, err := svc.GetPrefs(ctx, "user-a")
	require.NoError(t, err)
	assert.True(t, prefs.DigestEnabled)
	assert.Equal(t, 70.0, prefs.MinMatchScore)

	updated, err := svc.UpdatePrefs(ctx, "user-a", UpdatePrefsRequest{
		DigestEnabled: true,
		MinMatchScore: 90,
		MaxDistanceKm: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.MinMatchScore)

	got, err := svc.GetPrefs(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.MinMatchScore)
	assert.Equal(t, 50.0, got.MaxDistanceKm)

	_, err = svc.UpdatePrefs(ctx, "user-a", UpdatePrefsRequest{MinMatchScore: 150})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestDigest_ThresholdAndDistance(t *testing.T) {
	st := newTestStore(t)
	listings := seattleListings()
	// Put the matched show far away so the distance cap can drop it.
	listings[domain.SourceTicketmaster][0].DistanceKm = 120
	concerts := NewConcertService(st, &stubSearcher{bySource: listings}, nil)
	svc := NewNotificationService(st, concerts, nil)
	ctx := context.Background()

	seedUser(t, st, "user-a", "Ada")
	seedProfile(t, st, "user-a", []string{"Neon Coast"}, []string{"indie rock"})

	req := ConcertSearchRequest{City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30"}

	// Default prefs: the matched show clears the bar, the unmatched
	// chamber concert never makes the digest.
	entries, err := svc.Digest(ctx, "user-a", req)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tm-1", entries[0].Concert.ID)
	assert.NotEmpty(t, entries[0].Reason)

	// A distance cap below the venue's distance empties the digest.
	_, err = svc.UpdatePrefs(ctx, "user-a", UpdatePrefsRequest{
		DigestEnabled: true, MinMatchScore: 70, MaxDistanceKm: 50,
	})
	require.NoError(t, err)
	entries, err = svc.Digest(ctx, "user-a", req)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDigest_Disabled(t *testing.T) {
	st := newTestStore(t)
	concerts := NewConcertService(st, &stubSearcher{bySource: seattleListings()}, nil)
	svc := NewNotificationService(st, concerts, nil)
	ctx := context.Background()

	seedUser(t, st, "user-a", "Ada")
	_, err := svc.UpdatePrefs(ctx, "user-a", UpdatePrefsRequest{DigestEnabled: false})
	require.NoError(t, err)

	entries, err := svc.Digest(ctx, "user-a", ConcertSearchRequest{
		City: "Seattle", DateFrom: "2026-09-01", DateTo: "2026-09-30",
	})
	require.NoError(t, err)
	assert.Nil(t, entries)
}
