package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/store"
)

func seedUser(t *testing.T, st *store.Store, id, name string) {
	t.Helper()
	user := &domain.User{Email: id + "@example.com", DisplayName: name}
	user.ID = id
	user.InitTimestamps()
	require.NoError(t, st.CreateUser(context.Background(), user))
}

func seedProfile(t *testing.T, st *store.Store, userID string, artists, genres []string) {
	t.Helper()
	profile := &domain.UserMusicProfile{
		UserID:    userID,
		TopGenres: genres,
	}
	profile.ID = userID
	for _, a := range artists {
		profile.TopArtists = append(profile.TopArtists, domain.AggregatedArtist{Name: a, Score: 50})
	}
	require.NoError(t, st.ReplaceProfile(context.Background(), profile))
}

func TestGroupLifecycle(t *testing.T) {
	st := newTestStore(t)
	svc := NewGroupService(st, nil)
	ctx := context.Background()

	seedUser(t, st, "user-owner", "Ada")
	seedUser(t, st, "user-friend", "Grace")

	group, err := svc.Create(ctx, "user-owner", CreateGroupRequest{Name: "Festival Crew"})
	require.NoError(t, err)
	assert.NotEmpty(t, group.InviteKey)
	require.Len(t, group.Members, 1)

	// Join via invite key.
	joined, err := svc.Join(ctx, "user-friend", group.InviteKey)
	require.NoError(t, err)
	assert.Len(t, joined.Members, 2)

	// Joining again is a no-op.
	again, err := svc.Join(ctx, "user-friend", group.InviteKey)
	require.NoError(t, err)
	assert.Len(t, again.Members, 2)

	// Both members see the group.
	forFriend, err := svc.ListForUser(ctx, "user-friend")
	require.NoError(t, err)
	assert.Len(t, forFriend, 1)

	// Non-members can't read it.
	seedUser(t, st, "user-stranger", "Mallory")
	_, err = svc.Get(ctx, "user-stranger", group.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	// Owner can't leave.
	err = svc.Leave(ctx, "user-owner", group.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))

	// Members can.
	require.NoError(t, svc.Leave(ctx, "user-friend", group.ID))
	got, err := svc.Get(ctx, "user-owner", group.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)
}

func TestGroupDelete_OwnerOnly(t *testing.T) {
	st := newTestStore(t)
	svc := NewGroupService(st, nil)
	ctx := context.Background()

	seedUser(t, st, "user-owner", "Ada")
	seedUser(t, st, "user-friend", "Grace")

	group, err := svc.Create(ctx, "user-owner", CreateGroupRequest{Name: "Crew"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "user-friend", group.InviteKey)
	require.NoError(t, err)

	err = svc.Delete(ctx, "user-friend", group.ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))

	require.NoError(t, svc.Delete(ctx, "user-owner", group.ID))
	_, err = svc.Get(ctx, "user-owner", group.ID)
	assert.Error(t, err)
}

func TestGroupRotateInvite(t *testing.T) {
	st := newTestStore(t)
	svc := NewGroupService(st, nil)
	ctx := context.Background()

	seedUser(t, st, "user-owner", "Ada")
	seedUser(t, st, "user-friend", "Grace")

	group, err := svc.Create(ctx, "user-owner", CreateGroupRequest{Name: "Crew"})
	require.NoError(t, err)
	oldKey := group.InviteKey

	rotated, err := svc.RotateInvite(ctx, "user-owner", group.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldKey, rotated.InviteKey)

	// The old link is dead.
	_, err = svc.Join(ctx, "user-friend", oldKey)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = svc.Join(ctx, "user-friend", rotated.InviteKey)
	assert.NoError(t, err)
}

func TestGroupOverlap(t *testing.T) {
	st := newTestStore(t)
	svc := NewGroupService(st, nil)
	ctx := context.Background()

	seedUser(t, st, "user-a", "Ada")
	seedUser(t, st, "user-b", "Grace")
	seedProfile(t, st, "user-a", []string{"Neon Coast", "Glass Harbor"}, []string{"indie rock", "dream pop"})
	seedProfile(t, st, "user-b", []string{"Neon Coast", "Static Fields"}, []string{"indie rock", "techno"})

	group, err := svc.Create(ctx, "user-a", CreateGroupRequest{Name: "Crew"})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "user-b", group.InviteKey)
	require.NoError(t, err)

	overlap, err := svc.Overlap(ctx, "user-a", group.ID)
	require.NoError(t, err)

	require.Len(t, overlap.Artists, 1)
	assert.Equal(t, "Neon Coast", overlap.Artists[0].Name)
	assert.Equal(t, 2, overlap.Artists[0].Count)

	require.Len(t, overlap.Genres, 1)
	assert.Equal(t, "indie rock", overlap.Genres[0].Name)
}
