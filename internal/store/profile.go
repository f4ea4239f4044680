package store

import (
	"context"
	"errors"

	"github.com/encoreapp/encore-server/internal/domain"
)

// GetProfile retrieves the music profile for a user.
// Returns ErrNotFound when the user has never synced.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.UserMusicProfile, error) {
	return s.Profiles.Get(ctx, userID)
}

// ReplaceProfile stores a freshly aggregated profile, overwriting any
// previous one. Profiles are rebuilt wholesale on sync, so there is no
// partial-update path.
func (s *Store) ReplaceProfile(ctx context.Context, profile *domain.UserMusicProfile) error {
	existing, err := s.Profiles.Get(ctx, profile.UserID)
	switch {
	case err == nil:
		profile.CreatedAt = existing.CreatedAt
		profile.Touch()
		return s.Profiles.Update(ctx, profile.UserID, profile)
	case errors.Is(err, ErrNotFound):
		profile.InitTimestamps()
		return s.Profiles.Create(ctx, profile.UserID, profile)
	default:
		return err
	}
}

// DeleteProfile removes a user's profile. Idempotent.
func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	return s.Profiles.Delete(ctx, userID)
}
