package store

import (
	"context"
	"errors"

	"github.com/encoreapp/encore-server/internal/domain"
)

// GetPrefs retrieves a user's notification prefs, falling back to
// defaults for users who never saved any.
func (s *Store) GetPrefs(ctx context.Context, userID string) (*domain.NotificationPrefs, error) {
	prefs, err := s.Prefs.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return domain.DefaultNotificationPrefs(userID), nil
	}
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

// SavePrefs creates or replaces a user's notification prefs.
func (s *Store) SavePrefs(ctx context.Context, prefs *domain.NotificationPrefs) error {
	existing, err := s.Prefs.Get(ctx, prefs.UserID)
	switch {
	case err == nil:
		prefs.CreatedAt = existing.CreatedAt
		prefs.Touch()
		return s.Prefs.Update(ctx, prefs.UserID, prefs)
	case errors.Is(err, ErrNotFound):
		prefs.InitTimestamps()
		return s.Prefs.Create(ctx, prefs.UserID, prefs)
	default:
		return err
	}
}
