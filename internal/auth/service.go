package auth

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/imagevault/service/internal/apperr"
)

const (
	// DefaultGroupName is the group every new user starts with.
	DefaultGroupName = "My First Group"

	fallbackEmail = "no-email@example.com"
)

// Event types handled from the identity provider.
const (
	EventUserCreated = "user.created"
	EventUserDeleted = "user.deleted"
)

// Event is the envelope of an identity-provider webhook.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type emailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

type userData struct {
	ID                    string         `json:"id"`
	EmailAddresses        []emailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
}

// Store is the persistence the auth Service depends on.
type Store interface {
	CreateUserWithGroup(ctx context.Context, u NewUser, groupName string) (bool, error)
	DeleteUser(ctx context.Context, externalID string) (bool, error)
}

// Service applies identity-provider events to the local user table.
type Service struct {
	repo Store
}

// NewService creates a new auth Service.
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Handle applies one event. Unknown event types are ignored.
func (s *Service) Handle(ctx context.Context, evt Event) error {
	switch evt.Type {
	case EventUserCreated:
		return s.userCreated(ctx, evt.Data)
	case EventUserDeleted:
		return s.userDeleted(ctx, evt.Data)
	default:
		log.Debug().Str("type", evt.Type).Msg("webhook: ignoring event")
		return nil
	}
}

func (s *Service) userCreated(ctx context.Context, raw json.RawMessage) error {
	var data userData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return apperr.Validation("Invalid user payload")
	}

	created, err := s.repo.CreateUserWithGroup(ctx, NewUser{
		ExternalID: data.ID,
		Email:      data.primaryEmail(),
		Name:       data.displayName(),
	}, DefaultGroupName)
	if err != nil {
		return apperr.Persistence("Failed to save user and group", err)
	}

	if created {
		log.Info().Str("external_id", data.ID).Msg("user and default group created")
	} else {
		log.Info().Str("external_id", data.ID).Msg("user already exists, skipping")
	}
	return nil
}

func (s *Service) userDeleted(ctx context.Context, raw json.RawMessage) error {
	var data userData
	if err := json.Unmarshal(raw, &data); err != nil || data.ID == "" {
		return apperr.Validation("Invalid user payload")
	}

	deleted, err := s.repo.DeleteUser(ctx, data.ID)
	if err != nil {
		return apperr.Persistence("Failed to delete user", err)
	}
	// Stored images of the user's groups are left for the orphan sweeper.
	log.Info().Str("external_id", data.ID).Bool("deleted", deleted).Msg("user deleted")
	return nil
}

func (d userData) primaryEmail() string {
	for _, e := range d.EmailAddresses {
		if e.ID == d.PrimaryEmailAddressID && e.EmailAddress != "" {
			return e.EmailAddress
		}
	}
	if len(d.EmailAddresses) > 0 && d.EmailAddresses[0].EmailAddress != "" {
		return d.EmailAddresses[0].EmailAddress
	}
	return fallbackEmail
}

func (d userData) displayName() *string {
	if d.FirstName == "" {
		return nil
	}
	name := strings.TrimSpace(d.FirstName + " " + d.LastName)
	return &name
}
