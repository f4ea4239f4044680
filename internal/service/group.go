package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/encoreapp/encore-server/internal/domain"
	domainerrors "github.com/encoreapp/encore-server/internal/errors"
	"github.com/encoreapp/encore-server/internal/id"
	"github.com/encoreapp/encore-server/internal/store"
	"github.com/encoreapp/encore-server/internal/taste"
)

// GroupService manages planning groups: membership, invites, and
// taste overlap.
type GroupService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewGroupService creates a group service.
func NewGroupService(store *store.Store, logger *slog.Logger) *GroupService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &GroupService{store: store, logger: logger}
}

// CreateGroupRequest names a new group.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Create makes a new group with the caller as owner and sole member,
// and mints an invite key.
func (s *GroupService) Create(ctx context.Context, ownerID string, req CreateGroupRequest) (*domain.Group, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	owner, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}

	groupID, err := id.Generate("group")
	if err != nil {
		return nil, fmt.Errorf("generate group ID: %w", err)
	}
	inviteKey, err := id.Generate("invite")
	if err != nil {
		return nil, fmt.Errorf("generate invite key: %w", err)
	}

	group := &domain.Group{
		Name:      req.Name,
		OwnerID:   ownerID,
		InviteKey: inviteKey,
		Members: []domain.GroupMember{{
			UserID:   ownerID,
			Name:     owner.DisplayName,
			JoinedAt: time.Now().Format(time.RFC3339),
		}},
	}
	group.ID = groupID
	group.InitTimestamps()

	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	s.logger.Info("group created", "group_id", groupID, "owner_id", ownerID)
	return group, nil
}

// Get returns a group the caller belongs to.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*domain.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("group not found")
		}
		return nil, fmt.Errorf("get group: %w", err)
	}
	if !group.HasMember(userID) {
		return nil, domainerrors.Forbidden("not a member of this group")
	}
	return group, nil
}

// ListForUser returns every group the user belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID string) ([]*domain.Group, error) {
	return s.store.ListGroupsForUser(ctx, userID)
}

// Join adds the caller to the group behind an invite key. Joining a
// group you already belong to is a no-op.
func (s *GroupService) Join(ctx context.Context, userID, inviteKey string) (*domain.Group, error) {
	group, err := s.store.GetGroupByInviteKey(ctx, inviteKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("invite not found")
		}
		return nil, fmt.Errorf("lookup invite: %w", err)
	}
	if group.HasMember(userID) {
		return group, nil
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	group.Members = append(group.Members, domain.GroupMember{
		UserID:   userID,
		Name:     user.DisplayName,
		JoinedAt: time.Now().Format(time.RFC3339),
	})
	group.Touch()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	s.logger.Info("member joined group", "group_id", group.ID, "user_id", userID)
	return group, nil
}

// Leave removes the caller from the group. The owner cannot leave;
// they delete the group instead.
func (s *GroupService) Leave(ctx context.Context, userID, groupID string) error {
	group, err := s.Get(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == userID {
		return domainerrors.Conflict("the owner cannot leave; delete the group instead")
	}

	members := group.Members[:0]
	for _, m := range group.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	group.Members = members
	group.Touch()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	s.logger.Info("member left group", "group_id", groupID, "user_id", userID)
	return nil
}

// Delete removes the group entirely. Owner only.
func (s *GroupService) Delete(ctx context.Context, userID, groupID string) error {
	group, err := s.Get(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID != userID {
		return domainerrors.Forbidden("only the owner can delete the group")
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}

	s.logger.Info("group deleted", "group_id", groupID)
	return nil
}

// RotateInvite replaces the group's invite key, invalidating shared
// links. Owner only.
func (s *GroupService) RotateInvite(ctx context.Context, userID, groupID string) (*domain.Group, error) {
	group, err := s.Get(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if group.OwnerID != userID {
		return nil, domainerrors.Forbidden("only the owner can rotate the invite key")
	}

	inviteKey, err := id.Generate("invite")
	if err != nil {
		return nil, fmt.Errorf("generate invite key: %w", err)
	}
	group.InviteKey = inviteKey
	group.Touch()

	if err := s.store.UpdateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}

// GroupOverlap summarizes shared taste across the group's members.
type GroupOverlap struct {
	Artists []domain.OverlapItem `json:"artists"`
	Genres  []domain.OverlapItem `json:"genres"`
}

// Overlap returns the artists and genres shared by 2+ members.
func (s *GroupService) Overlap(ctx context.Context, userID, groupID string) (*GroupOverlap, error) {
	group, err := s.Get(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}

	members, err := loadMembers(ctx, s.store, group)
	if err != nil {
		return nil, err
	}

	return &GroupOverlap{
		Artists: taste.OverlapArtists(members),
		Genres:  taste.OverlapGenres(members),
	}, nil
}
