package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
)

func TestProfile_PicksAndSync(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.signupUser(t, "profile@example.com")

	// No profile until a sync happens.
	resp := ts.api.Get("/api/v1/profile", bearer(token))
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// Set manual picks.
	resp = ts.api.Put("/api/v1/profile/picks", bearer(token), map[string]any{
		"artists": []string{"Neon Coast", "Glass Harbor"},
		"genres":  []string{"indie rock"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	picks := decodeEnvelope[*domain.ManualPicks](t, resp.Body.Bytes())
	assert.Equal(t, []string{"Neon Coast", "Glass Harbor"}, picks.Data.Artists)

	resp = ts.api.Get("/api/v1/profile/picks", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)

	// Sync builds the profile from the picks.
	resp = ts.api.Post("/api/v1/profile/sync", bearer(token), map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	profile := decodeEnvelope[*domain.UserMusicProfile](t, resp.Body.Bytes())
	assert.Equal(t, userID, profile.Data.UserID)
	assert.Len(t, profile.Data.TopArtists, 2)
	assert.Contains(t, profile.Data.TopGenres, "indie rock")
	assert.Contains(t, profile.Data.ConnectedServices, domain.ServiceManual)

	// Get returns the persisted profile.
	resp = ts.api.Get("/api/v1/profile", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestProfileSync_NothingToSync(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "empty-sync@example.com")

	resp := ts.api.Post("/api/v1/profile/sync", bearer(token), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestNotificationPrefsEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "prefs@example.com")

	// Defaults before any update.
	resp := ts.api.Get("/api/v1/notifications/prefs", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	prefs := decodeEnvelope[*domain.NotificationPrefs](t, resp.Body.Bytes())
	assert.True(t, prefs.Data.DigestEnabled)
	assert.Equal(t, 70.0, prefs.Data.MinMatchScore)

	// Update persists.
	resp = ts.api.Put("/api/v1/notifications/prefs", bearer(token), map[string]any{
		"digest_enabled":  true,
		"min_match_score": 90,
		"max_distance_km": 50,
		"on_sale_alerts":  true,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/notifications/prefs", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code)
	prefs = decodeEnvelope[*domain.NotificationPrefs](t, resp.Body.Bytes())
	assert.Equal(t, 90.0, prefs.Data.MinMatchScore)
	assert.Equal(t, 50.0, prefs.Data.MaxDistanceKm)
}

func TestDigestEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "digest@example.com")
	syncPicksProfile(t, ts, token, []string{"Neon Coast"}, []string{"indie rock"})

	resp := ts.api.Get("/api/v1/notifications/digest?city=Seattle&date_from=2026-09-01&date_to=2026-09-30", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[struct {
		Entries []domain.DigestEntry `json:"entries"`
		Total   int                  `json:"total"`
	}](t, resp.Body.Bytes())
	require.Equal(t, 1, env.Data.Total)
	assert.Equal(t, "tm-1", env.Data.Entries[0].Concert.ID)
	assert.NotEmpty(t, env.Data.Entries[0].Reason)
}
