package profile

import (
	"context"
	"errors"
)

// Service contains business logic for operator account management.
type Service struct {
	repo *Repository
}

// NewService creates a new profile Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new operator account with a pre-hashed password.
func (s *Service) Create(ctx context.Context, email, passwordHash string, displayName *string) (*Profile, error) {
	return s.repo.Create(ctx, email, passwordHash, displayName)
}

// GetByID returns a profile by its UUID.
func (s *Service) GetByID(ctx context.Context, id string) (*Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes a profile's display name.
func (s *Service) Update(ctx context.Context, id string, displayName *string) (*Profile, error) {
	return s.repo.Update(ctx, id, displayName)
}

// GetByEmail returns a profile by its email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	return s.repo.GetByEmail(ctx, email)
}

// IsNotFound returns true when the error indicates a profile was not found.
func (s *Service) IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
