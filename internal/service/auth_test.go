package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/auth"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestAuth(t *testing.T, st *store.Store) *AuthService {
	t.Helper()
	tokens, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)
	sessions := NewSessionService(st, tokens, nil)
	return NewAuthService(st, tokens, sessions, nil)
}

func TestSignupAndLogin(t *testing.T) {
	st := newTestStore(t)
	svc := newTestAuth(t, st)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{
		Email:       "Ada@Example.com",
		Password:    "correct-horse",
		DisplayName: "Ada",
		HomeCity:    "Seattle",
	})
	require.NoError(t, err)
	assert.True(t, resp.User.IsRoot, "first account becomes root")
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// Signup installs default digest prefs.
	prefs, err := st.GetPrefs(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, prefs.DigestEnabled)

	// Email lookup is case-insensitive.
	login, err := svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	// Second account is not root.
	second, err := svc.Signup(ctx, SignupRequest{
		Email:       "grace@example.com",
		Password:    "another-pass",
		DisplayName: "Grace",
	})
	require.NoError(t, err)
	assert.False(t, second.User.IsRoot)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)

	_, err = svc.Signup(ctx, SignupRequest{Email: "A@B.com", Password: "password2", DisplayName: "B"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestSignup_Validation(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "not-an-email", Password: "password1", DisplayName: "A"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "short", DisplayName: "A"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestLogin_BadCredentials(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "wrong-password"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))

	// Unknown email reads the same as a wrong password.
	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@b.com", Password: "password1"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestRefreshRotation(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)

	rotated, err := svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)
	assert.Equal(t, resp.SessionID, rotated.SessionID, "rotation keeps the session")

	// The old refresh token is dead after rotation.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))

	// The new one still works.
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.SessionID))

	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.Error(t, err)
}

func TestVerifyAccessToken(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)

	user, claims, err := svc.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, user.ID)
	assert.Equal(t, resp.User.ID, claims.UserID)

	_, _, err = svc.VerifyAccessToken(ctx, "v4.local.garbage")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestLogoutEverywhere(t *testing.T) {
	svc := newTestAuth(t, newTestStore(t))
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Email: "a@b.com", Password: "password1", DisplayName: "A"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, LoginRequest{Email: "a@b.com", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, svc.LogoutEverywhere(ctx, resp.User.ID))

	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.Error(t, err)
	_, err = svc.RefreshTokens(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	assert.Error(t, err)
}
