package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/service"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getNotificationPrefs",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications/prefs",
		Summary:     "Get notification preferences",
		Description: "Returns the user's digest preferences, defaults if never set",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPrefs)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNotificationPrefs",
		Method:      http.MethodPut,
		Path:        "/api/v1/notifications/prefs",
		Summary:     "Update notification preferences",
		Description: "Replaces the user's digest preferences",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePrefs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDigest",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications/digest",
		Summary:     "Get concert digest",
		Description: "Returns upcoming concerts worth notifying about, filtered by the user's preferences",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDigest)
}

// === DTOs ===

// PrefsOutput wraps notification preferences for Huma.
type PrefsOutput struct {
	Body *domain.NotificationPrefs
}

// UpdatePrefsRequest carries digest preference changes.
type UpdatePrefsRequest struct {
	DigestEnabled bool    `json:"digest_enabled" doc:"Whether the concert digest is on"`
	MinMatchScore float64 `json:"min_match_score" validate:"min=0,max=100" doc:"Minimum match score for inclusion"`
	MaxDistanceKm float64 `json:"max_distance_km" validate:"min=0" doc:"Maximum venue distance, 0 disables the filter"`
	OnSaleAlerts  bool    `json:"on_sale_alerts" doc:"Alert when a matched concert goes on sale"`
}

// UpdatePrefsInput wraps the preferences update for Huma.
type UpdatePrefsInput struct {
	Body UpdatePrefsRequest
}

// DigestInput carries digest query parameters.
type DigestInput struct {
	City     string `query:"city" required:"true" maxLength:"100" doc:"City to search in"`
	DateFrom string `query:"date_from" required:"true" doc:"Inclusive start date (YYYY-MM-DD)"`
	DateTo   string `query:"date_to" required:"true" doc:"Inclusive end date (YYYY-MM-DD)"`
}

// DigestOutput wraps digest entries for Huma.
type DigestOutput struct {
	Body struct {
		Entries []domain.DigestEntry `json:"entries"`
		Total   int                  `json:"total"`
	}
}

// === Handlers ===

func (s *Server) handleGetPrefs(ctx context.Context, _ *struct{}) (*PrefsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := s.services.Notification.GetPrefs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PrefsOutput{Body: prefs}, nil
}

func (s *Server) handleUpdatePrefs(ctx context.Context, input *UpdatePrefsInput) (*PrefsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := s.services.Notification.UpdatePrefs(ctx, userID, service.UpdatePrefsRequest{
		DigestEnabled: input.Body.DigestEnabled,
		MinMatchScore: input.Body.MinMatchScore,
		MaxDistanceKm: input.Body.MaxDistanceKm,
		OnSaleAlerts:  input.Body.OnSaleAlerts,
	})
	if err != nil {
		return nil, err
	}

	return &PrefsOutput{Body: prefs}, nil
}

func (s *Server) handleDigest(ctx context.Context, input *DigestInput) (*DigestOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.services.Notification.Digest(ctx, userID, service.ConcertSearchRequest{
		City:     input.City,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
	})
	if err != nil {
		return nil, err
	}

	out := &DigestOutput{}
	out.Body.Entries = entries
	out.Body.Total = len(entries)
	return out, nil
}
