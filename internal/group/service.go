package group

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/imagevault/service/internal/apperr"
)

// maxNameLength bounds group names; the UI truncates long ones anyway.
const maxNameLength = 100

// Store is the persistence the group Service depends on.
type Store interface {
	Create(ctx context.Context, userID, name string) (*Group, error)
	GetByID(ctx context.Context, id string) (*Group, error)
	ListByUser(ctx context.Context, userID string) ([]Group, error)
	Delete(ctx context.Context, id string) error
}

// Service contains business logic for group management.
type Service struct {
	repo Store
}

// NewService creates a new group Service.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Create adds a group named name for userID.
func (s *Service) Create(ctx context.Context, userID, name string) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Group name is required")
	}
	if len([]rune(name)) > maxNameLength {
		return nil, apperr.Validation("Group name is too long")
	}

	g, err := s.repo.Create(ctx, userID, name)
	if err != nil {
		return nil, apperr.Persistence("create group", err)
	}
	return g, nil
}

// List returns every group owned by userID.
func (s *Service) List(ctx context.Context, userID string) ([]Group, error) {
	groups, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Persistence("list groups", err)
	}
	if groups == nil {
		groups = []Group{}
	}
	return groups, nil
}

// Get returns the group with id. Only the canonical lowercase dashed form
// is accepted; other spellings Postgres would resolve to the same row are
// reported as not found, since object keys are built from the id verbatim.
func (s *Service) Get(ctx context.Context, id string) (*Group, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return nil, apperr.NotFound("Group not found")
	}

	g, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Group not found")
	}
	if err != nil {
		return nil, apperr.Persistence("get group", err)
	}
	return g, nil
}

// Delete removes the group row.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Group not found")
	}
	if err != nil {
		return apperr.Persistence("delete group", err)
	}
	return nil
}
