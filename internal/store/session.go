package store

import (
	"context"

	"github.com/encoreapp/encore-server/internal/domain"
)

// CreateSession persists a new refresh-token session.
func (s *Store) CreateSession(ctx context.Context, session *domain.Session) error {
	session.InitTimestamps()
	return s.Sessions.Create(ctx, session.ID, session)
}

// GetSessionByTokenHash resolves a hashed refresh token to its session.
func (s *Store) GetSessionByTokenHash(ctx context.Context, hash string) (*domain.Session, error) {
	return s.Sessions.GetByIndex(ctx, "token", hash)
}

// UpdateSession persists a rotated session (new token hash and expiry).
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	session.Touch()
	return s.Sessions.Update(ctx, session.ID, session)
}

// DeleteSession revokes one session. Idempotent.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.Sessions.Delete(ctx, id)
}

// DeleteSessionsForUser revokes every session a user holds.
func (s *Store) DeleteSessionsForUser(ctx context.Context, userID string) error {
	sessions, err := s.Sessions.ListByIndex(ctx, "user", userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if err := s.Sessions.Delete(ctx, session.ID); err != nil {
			return err
		}
	}
	return nil
}
