package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/encoreapp/encore-server/internal/domain"
	"github.com/encoreapp/encore-server/internal/store"
)

// NotificationService manages digest preferences and builds the
// per-user concert digest.
type NotificationService struct {
	store    *store.Store
	concerts *ConcertService
	logger   *slog.Logger
}

// NewNotificationService creates a notification service.
func NewNotificationService(store *store.Store, concerts *ConcertService, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NotificationService{store: store, concerts: concerts, logger: logger}
}

// GetPrefs returns the user's digest preferences, defaults when unset.
func (s *NotificationService) GetPrefs(ctx context.Context, userID string) (*domain.NotificationPrefs, error) {
	return s.store.GetPrefs(ctx, userID)
}

// UpdatePrefsRequest carries digest preference changes.
type UpdatePrefsRequest struct {
	DigestEnabled bool    `json:"digest_enabled"`
	MinMatchScore float64 `json:"min_match_score" validate:"min=0,max=100"`
	MaxDistanceKm float64 `json:"max_distance_km" validate:"min=0"`
	OnSaleAlerts  bool    `json:"on_sale_alerts"`
}

// UpdatePrefs replaces the user's digest preferences.
func (s *NotificationService) UpdatePrefs(ctx context.Context, userID string, req UpdatePrefsRequest) (*domain.NotificationPrefs, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	prefs := &domain.NotificationPrefs{
		UserID:        userID,
		DigestEnabled: req.DigestEnabled,
		MinMatchScore: req.MinMatchScore,
		MaxDistanceKm: req.MaxDistanceKm,
		OnSaleAlerts:  req.OnSaleAlerts,
	}
	if err := s.store.SavePrefs(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save prefs: %w", err)
	}
	return prefs, nil
}

// Digest returns the concerts that clear the user's digest bar for the
// window: scored matches at or above MinMatchScore, within
// MaxDistanceKm when set. An empty digest is normal, not an error.
func (s *NotificationService) Digest(ctx context.Context, userID string, req ConcertSearchRequest) ([]domain.DigestEntry, error) {
	prefs, err := s.store.GetPrefs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get prefs: %w", err)
	}
	if !prefs.DigestEnabled {
		return nil, nil
	}

	concerts, err := s.concerts.Search(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	var entries []domain.DigestEntry
	for _, c := range concerts {
		if c.MatchScore < prefs.MinMatchScore {
			// Search results are sorted matched-first, so nothing
			// further down can clear the bar.
			break
		}
		if prefs.MaxDistanceKm > 0 && c.DistanceKm > prefs.MaxDistanceKm {
			continue
		}
		entry := domain.DigestEntry{Concert: c}
		if len(c.MatchReasons) > 0 {
			entry.Reason = c.MatchReasons[0]
		}
		entries = append(entries, entry)
	}

	s.logger.Info("digest built", "user_id", userID, "entries", len(entries))
	return entries, nil
}
