package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile",
		Summary:     "Get music profile",
		Description: "Returns the authenticated user's aggregated music profile",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "syncProfile",
		Method:      http.MethodPost,
		Path:        "/api/v1/profile/sync",
		Summary:     "Sync music profile",
		Description: "Rebuilds the profile from connected music services and manual picks",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSyncProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getManualPicks",
		Method:      http.MethodGet,
		Path:        "/api/v1/profile/picks",
		Summary:     "Get manual picks",
		Description: "Returns the user's manually entered favorite artists and genres",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetManualPicks)

	huma.Register(s.api, huma.Operation{
		OperationID: "setManualPicks",
		Method:      http.MethodPut,
		Path:        "/api/v1/profile/picks",
		Summary:     "Set manual picks",
		Description: "Replaces the user's manually entered favorite artists and genres",
		Tags:        []string{"Profile"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetManualPicks)
}

// === DTOs ===

// SyncProfileRequest carries per-service tokens for a profile rebuild.
type SyncProfileRequest struct {
	SpotifyToken string `json:"spotify_token,omitempty" doc:"User's Spotify bearer token; empty skips Spotify"`
}

// SyncProfileInput wraps the sync request for Huma.
type SyncProfileInput struct {
	Body SyncProfileRequest
}

// ProfileOutput wraps a music profile for Huma.
type ProfileOutput struct {
	Body *domain.UserMusicProfile
}

// ManualPicksRequest is the request body for setting manual picks.
type ManualPicksRequest struct {
	Artists []string `json:"artists" validate:"max=100,dive,max=200" doc:"Favorite artist names"`
	Genres  []string `json:"genres" validate:"max=50,dive,max=100" doc:"Favorite genre names"`
}

// ManualPicksInput wraps the manual picks request for Huma.
type ManualPicksInput struct {
	Body ManualPicksRequest
}

// ManualPicksOutput wraps manual picks for Huma.
type ManualPicksOutput struct {
	Body *domain.ManualPicks
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleSyncProfile(ctx context.Context, input *SyncProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.Sync(ctx, userID, service.SyncRequest{
		SpotifyToken: input.Body.SpotifyToken,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleGetManualPicks(ctx context.Context, _ *struct{}) (*ManualPicksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	picks, err := s.services.Profile.GetManualPicks(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ManualPicksOutput{Body: picks}, nil
}

func (s *Server) handleSetManualPicks(ctx context.Context, input *ManualPicksInput) (*ManualPicksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	picks, err := s.services.Profile.SetManualPicks(ctx, userID, input.Body.Artists, input.Body.Genres)
	if err != nil {
		return nil, err
	}

	return &ManualPicksOutput{Body: picks}, nil
}
