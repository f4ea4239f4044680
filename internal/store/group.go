package store

import (
	"context"

	"github.com/encoreapp/encore-server/internal/domain"
)

// CreateGroup persists a new group.
func (s *Store) CreateGroup(ctx context.Context, group *domain.Group) error {
	group.InitTimestamps()
	return s.Groups.Create(ctx, group.ID, group)
}

// GetGroup retrieves a group by ID.
func (s *Store) GetGroup(ctx context.Context, id string) (*domain.Group, error) {
	return s.Groups.Get(ctx, id)
}

// GetGroupByInviteKey resolves an invite key to its group.
func (s *Store) GetGroupByInviteKey(ctx context.Context, key string) (*domain.Group, error) {
	return s.Groups.GetByIndex(ctx, "invite", key)
}

// ListGroupsForUser returns every group the user belongs to.
func (s *Store) ListGroupsForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	return s.Groups.ListByIndex(ctx, "member", userID)
}

// UpdateGroup persists membership or metadata changes.
func (s *Store) UpdateGroup(ctx context.Context, group *domain.Group) error {
	group.Touch()
	return s.Groups.Update(ctx, group.ID, group)
}

// DeleteGroup removes a group. Idempotent.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	return s.Groups.Delete(ctx, id)
}
