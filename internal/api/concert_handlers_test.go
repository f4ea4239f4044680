package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/service"
)

func TestSearchConcertsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "concerts@example.com")
	syncPicksProfile(t, ts, token, []string{"Neon Coast"}, []string{"indie rock"})

	resp := ts.api.Get("/api/v1/concerts?city=Seattle&date_from=2026-09-01&date_to=2026-09-30", bearer(token))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[struct {
		Concerts []domain.AggregatedConcert `json:"concerts"`
		Total    int                        `json:"total"`
	}](t, resp.Body.Bytes())
	require.Equal(t, 2, env.Data.Total)

	// The profile-matched concert ranks first and carries a score.
	top := env.Data.Concerts[0]
	assert.Equal(t, "tm-1", top.ID)
	assert.Greater(t, top.MatchScore, 0.0)
	assert.NotEmpty(t, top.MatchReasons)
}

func TestSearchConcertsEndpoint_MissingParams(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.signupUser(t, "noparams@example.com")

	resp := ts.api.Get("/api/v1/concerts?city=Seattle", bearer(token))
	assert.GreaterOrEqual(t, resp.Code, 400)
	assert.Less(t, resp.Code, 500)
}

func TestSearchGroupConcertsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	ownerToken, _ := ts.signupUser(t, "gc-owner@example.com")
	memberToken, _ := ts.signupUser(t, "gc-member@example.com")
	syncPicksProfile(t, ts, ownerToken, []string{"Neon Coast"}, nil)
	syncPicksProfile(t, ts, memberToken, []string{"Static Fields"}, nil)

	groupResp := ts.api.Post("/api/v1/groups", bearer(ownerToken), map[string]any{"name": "Gig Buddies"})
	require.Equal(t, http.StatusOK, groupResp.Code)
	group := decodeEnvelope[*domain.Group](t, groupResp.Body.Bytes())

	joinResp := ts.api.Post("/api/v1/groups/join", bearer(memberToken), map[string]any{
		"invite_key": group.Data.InviteKey,
	})
	require.Equal(t, http.StatusOK, joinResp.Code)

	resp := ts.api.Get("/api/v1/groups/"+group.Data.ID+"/concerts?city=Seattle&date_from=2026-09-01&date_to=2026-09-30", bearer(ownerToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[struct {
		Concerts []service.GroupConcert `json:"concerts"`
		Total    int                    `json:"total"`
	}](t, resp.Body.Bytes())
	require.NotEmpty(t, env.Data.Concerts)

	// Non-members are rejected.
	outsiderToken, _ := ts.signupUser(t, "gc-outsider@example.com")
	resp = ts.api.Get("/api/v1/groups/"+group.Data.ID+"/concerts?city=Seattle&date_from=2026-09-01&date_to=2026-09-30", bearer(outsiderToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)
}
