package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testStoreUser(id, email string) *domain.User {
	u := &domain.User{Email: email, DisplayName: "Test", PasswordHash: "x"}
	u.ID = id
	return u
}

func TestUserCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testStoreUser("usr-1", "Fan@Example.com")
	require.NoError(t, s.CreateUser(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	got, err := s.GetUser(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "Fan@Example.com", got.Email)

	// Email lookups are case-insensitive.
	got, err = s.GetUserByEmail(ctx, "fan@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", got.ID)

	got.HomeCity = "Austin"
	require.NoError(t, s.UpdateUser(ctx, got))
	got, err = s.GetUser(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "Austin", got.HomeCity)

	_, err = s.GetUser(ctx, "usr-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testStoreUser("usr-1", "fan@example.com")))
	err := s.CreateUser(ctx, testStoreUser("usr-2", "FAN@example.com"))
	assert.ErrorIs(t, err, ErrEmailExists)

	n, err := s.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReplaceProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &domain.UserMusicProfile{
		UserID:    "usr-1",
		TopGenres: []string{"indie rock"},
	}
	require.NoError(t, s.ReplaceProfile(ctx, p))
	created := p.CreatedAt

	p2 := &domain.UserMusicProfile{
		UserID:    "usr-1",
		TopGenres: []string{"indie rock", "shoegaze"},
	}
	require.NoError(t, s.ReplaceProfile(ctx, p2))

	got, err := s.GetProfile(ctx, "usr-1")
	require.NoError(t, err)
	assert.Len(t, got.TopGenres, 2)
	// Replacement keeps the original creation time.
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())

	_, err = s.GetProfile(ctx, "usr-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testStoreGroup(id, invite string, memberIDs ...string) *domain.Group {
	g := &domain.Group{Name: "Festival Crew", OwnerID: memberIDs[0], InviteKey: invite}
	g.ID = id
	for _, m := range memberIDs {
		g.Members = append(g.Members, domain.GroupMember{UserID: m})
	}
	return g
}

func TestGroupMembershipIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGroup(ctx, testStoreGroup("grp-1", "inv-aaa", "usr-a", "usr-b")))
	require.NoError(t, s.CreateGroup(ctx, testStoreGroup("grp-2", "inv-bbb", "usr-b", "usr-c")))

	groups, err := s.ListGroupsForUser(ctx, "usr-b")
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	groups, err = s.ListGroupsForUser(ctx, "usr-a")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "grp-1", groups[0].ID)

	groups, err = s.ListGroupsForUser(ctx, "usr-nobody")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGroupMembershipIndex_FollowsUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	g := testStoreGroup("grp-1", "inv-aaa", "usr-a")
	require.NoError(t, s.CreateGroup(ctx, g))

	g.Members = append(g.Members, domain.GroupMember{UserID: "usr-b"})
	require.NoError(t, s.UpdateGroup(ctx, g))

	groups, err := s.ListGroupsForUser(ctx, "usr-b")
	require.NoError(t, err)
	assert.Len(t, groups, 1)

	// Removing a member drops them from the index.
	g.Members = g.Members[:1]
	require.NoError(t, s.UpdateGroup(ctx, g))
	groups, err = s.ListGroupsForUser(ctx, "usr-b")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGetGroupByInviteKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGroup(ctx, testStoreGroup("grp-1", "inv-aaa", "usr-a")))

	g, err := s.GetGroupByInviteKey(ctx, "inv-aaa")
	require.NoError(t, err)
	assert.Equal(t, "grp-1", g.ID)

	_, err = s.GetGroupByInviteKey(ctx, "inv-zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	// Invite keys are unique across groups.
	err = s.CreateGroup(ctx, testStoreGroup("grp-2", "inv-aaa", "usr-b"))
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestFestivalUpsertAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := &domain.Festival{Name: "Harbor Sounds"}
	f.ID = "fest-1"
	require.NoError(t, s.UpsertFestival(ctx, f))
	created := f.CreatedAt

	f2 := &domain.Festival{Name: "Harbor Sounds 2026"}
	f2.ID = "fest-1"
	require.NoError(t, s.UpsertFestival(ctx, f2))

	got, err := s.GetFestival(ctx, "fest-1")
	require.NoError(t, err)
	assert.Equal(t, "Harbor Sounds 2026", got.Name)
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())

	festivals, err := s.ListFestivals(ctx)
	require.NoError(t, err)
	assert.Len(t, festivals, 1)

	require.NoError(t, s.DeleteFestival(ctx, "fest-1"))
	festivals, err = s.ListFestivals(ctx)
	require.NoError(t, err)
	assert.Empty(t, festivals)
}

func TestPrefsDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	prefs, err := s.GetPrefs(ctx, "usr-1")
	require.NoError(t, err)
	assert.True(t, prefs.DigestEnabled)
	assert.Equal(t, float64(70), prefs.MinMatchScore)

	prefs.MinMatchScore = 85
	prefs.DigestEnabled = false
	require.NoError(t, s.SavePrefs(ctx, prefs))

	got, err := s.GetPrefs(ctx, "usr-1")
	require.NoError(t, err)
	assert.False(t, got.DigestEnabled)
	assert.Equal(t, float64(85), got.MinMatchScore)
}

func TestSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mk := func(id, user, hash string) *domain.Session {
		sess := &domain.Session{UserID: user, TokenHash: hash, ExpiresAt: time.Now().Add(time.Hour)}
		sess.ID = id
		return sess
	}
	require.NoError(t, s.CreateSession(ctx, mk("sess-1", "usr-a", "hash-1")))
	require.NoError(t, s.CreateSession(ctx, mk("sess-2", "usr-a", "hash-2")))
	require.NoError(t, s.CreateSession(ctx, mk("sess-3", "usr-b", "hash-3")))

	sess, err := s.GetSessionByTokenHash(ctx, "hash-2")
	require.NoError(t, err)
	assert.Equal(t, "sess-2", sess.ID)

	// Rotation: new hash replaces the old index entry.
	sess.TokenHash = "hash-2b"
	require.NoError(t, s.UpdateSession(ctx, sess))
	_, err = s.GetSessionByTokenHash(ctx, "hash-2")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetSessionByTokenHash(ctx, "hash-2b")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSessionsForUser(ctx, "usr-a"))
	_, err = s.GetSessionByTokenHash(ctx, "hash-1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetSessionByTokenHash(ctx, "hash-3")
	require.NoError(t, err)
}

func TestConcertCache(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key := ConcertCacheKey(" Montréal ", "2026-09-01", "2026-09-30")
	assert.Equal(t, "montréal|2026-09-01|2026-09-30", key)

	_, err := s.CachedConcerts(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	concerts := []domain.AggregatedConcert{
		{
			Concert: domain.Concert{ID: "conc-1", Name: "Night Show"},
			Sources: []domain.Source{domain.SourceTicketmaster},
		},
	}
	require.NoError(t, s.CacheConcerts(ctx, key, concerts, time.Minute))

	got, err := s.CachedConcerts(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Night Show", got[0].Name)

	require.NoError(t, s.InvalidateConcerts(ctx, key))
	_, err = s.CachedConcerts(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManualPicks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	picks, err := s.GetManualPicks(ctx, "usr-1")
	require.NoError(t, err)
	assert.Empty(t, picks.Artists)

	picks.Artists = []string{"Neon Coast"}
	picks.Genres = []string{"indie rock"}
	require.NoError(t, s.SaveManualPicks(ctx, picks))

	got, err := s.GetManualPicks(ctx, "usr-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Neon Coast"}, got.Artists)

	got.Artists = append(got.Artists, "Glass Harbor")
	require.NoError(t, s.SaveManualPicks(ctx, got))
	got, err = s.GetManualPicks(ctx, "usr-1")
	require.NoError(t, err)
	assert.Len(t, got.Artists, 2)
}
