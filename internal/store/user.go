package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/encoreapp/encore-server/internal/domain"
)

// CreateUser persists a new user. The caller sets the ID and password
// hash; the store enforces email uniqueness.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	user.InitTimestamps()
	err := s.Users.Create(ctx, user.ID, user)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.Get(ctx, id)
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.Users.GetByIndex(ctx, "email", email)
}

// UpdateUser persists changes to an existing user.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()
	err := s.Users.Update(ctx, user.ID, user)
	if errors.Is(err, ErrAlreadyExists) {
		return ErrEmailExists
	}
	return err
}

// CountUsers returns the number of registered users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	count := 0
	for _, err := range s.Users.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("failed to count users: %w", err)
		}
		count++
	}
	return count, nil
}
