package store

import (
	"context"
	"errors"

	"github.com/encoreapp/encore-server/internal/domain"
)

// GetManualPicks retrieves a user's hand-picked favorites, or an empty
// set if they never added any.
func (s *Store) GetManualPicks(ctx context.Context, userID string) (*domain.ManualPicks, error) {
	picks, err := s.Manual.Get(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return &domain.ManualPicks{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return picks, nil
}

// SaveManualPicks creates or replaces a user's hand-picked favorites.
func (s *Store) SaveManualPicks(ctx context.Context, picks *domain.ManualPicks) error {
	existing, err := s.Manual.Get(ctx, picks.UserID)
	switch {
	case err == nil:
		picks.CreatedAt = existing.CreatedAt
		picks.Touch()
		return s.Manual.Update(ctx, picks.UserID, picks)
	case errors.Is(err, ErrNotFound):
		picks.InitTimestamps()
		return s.Manual.Create(ctx, picks.UserID, picks)
	default:
		return err
	}
}
