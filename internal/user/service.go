package user

import (
	"context"
	"errors"
)

// Service contains business logic for user lookups and profile updates.
type Service struct {
	repo *Repository
}

// NewService creates a new user Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// FindByID returns a user by their UUID.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByUsername returns a user by their username.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// UpdateProfileImageURL records the public image URL on the user's profile.
func (s *Service) UpdateProfileImageURL(ctx context.Context, username, url string) error {
	return s.repo.UpdateProfileImageURL(ctx, username, url)
}

// IsNotFound returns true when the error indicates a user was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
