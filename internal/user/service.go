package user

import (
	"context"
	"errors"

	"github.com/imagevault/service/internal/apperr"
	"github.com/imagevault/service/internal/middleware"
)

// Store is the persistence the user Service depends on.
type Store interface {
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
}

// Service contains business logic for user lookups.
type Service struct {
	repo Store
}

// NewService creates a new user Service.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Current resolves the user behind the authenticated request context.
func (s *Service) Current(ctx context.Context) (*User, error) {
	subject, ok := middleware.Subject(ctx)
	if !ok {
		return nil, apperr.Unauthorized("Unauthorized")
	}

	u, err := s.repo.GetByExternalID(ctx, subject)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Persistence("load current user", err)
	}
	return u, nil
}
