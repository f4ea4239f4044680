package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup_FirstUserIsRoot(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "first@example.com",
		"password":     "CorrectHorseBattery1",
		"display_name": "First",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.True(t, env.Data.User.IsRoot)
	assert.Equal(t, "Bearer", env.Data.TokenType)
	assert.NotEmpty(t, env.Data.RefreshToken)
	assert.NotEmpty(t, env.Data.SessionID)

	resp = ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "second@example.com",
		"password":     "CorrectHorseBattery1",
		"display_name": "Second",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	env = decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.False(t, env.Data.User.IsRoot)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.signupUser(t, "dupe@example.com")

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "dupe@example.com",
		"password":     "CorrectHorseBattery1",
		"display_name": "Again",
	})
	assert.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestSignup_ValidationRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "not-an-email",
		"password":     "short",
		"display_name": "X",
	})
	assert.GreaterOrEqual(t, resp.Code, 400)
	assert.Less(t, resp.Code, 500)
}

func TestLogin_And_GetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	ts.signupUser(t, "login@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "login@example.com",
		"password": "CorrectHorseBattery1",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	require.NotEmpty(t, env.Data.AccessToken)

	me := ts.api.Get("/api/v1/users/me", bearer(env.Data.AccessToken))
	require.Equal(t, http.StatusOK, me.Code)

	meEnv := decodeEnvelope[UserResponse](t, me.Body.Bytes())
	assert.Equal(t, "login@example.com", meEnv.Data.Email)
	assert.Equal(t, "Seattle", meEnv.Data.HomeCity)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.signupUser(t, "wrongpw@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "wrongpw@example.com",
		"password": "definitely-not-it",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "refresh@example.com",
		"password":     "CorrectHorseBattery1",
		"display_name": "Refresh",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	first := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	second := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, second.Data.AccessToken)
	assert.NotEqual(t, first.Data.RefreshToken, second.Data.RefreshToken, "refresh token rotates")

	// The old refresh token is dead after rotation.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": first.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/signup", map[string]any{
		"email":        "logout@example.com",
		"password":     "CorrectHorseBattery1",
		"display_name": "Logout",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/logout", bearer(env.Data.AccessToken), map[string]any{
		"session_id": env.Data.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	// The refresh token tied to that session no longer works.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": env.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutEverywhere(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "everywhere@example.com")

	// Second session via login.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "everywhere@example.com",
		"password": "CorrectHorseBattery1",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	second := decodeEnvelope[AuthResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/auth/logout-everywhere", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": second.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestProtectedRoutes_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/groups"},
		{http.MethodGet, "/api/v1/notifications/prefs"},
	}

	for _, p := range paths {
		var code int
		switch p.method {
		case http.MethodGet:
			code = ts.api.Get(p.path).Code
		}
		assert.Equal(t, http.StatusUnauthorized, code, "%s %s", p.method, p.path)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
