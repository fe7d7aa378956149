// Package auth keeps local users in sync with the identity provider by
// ingesting its signed user lifecycle webhooks.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewUser is the profile carried by a user.created event.
type NewUser struct {
	ExternalID string
	Email      string
	Name       *string
}

// Repository persists identity-provider users.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new auth Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateUserWithGroup inserts the user and a first group in one transaction.
// It reports false without changes when the user already exists, so webhook
// redeliveries are harmless.
func (r *Repository) CreateUserWithGroup(ctx context.Context, u NewUser, groupName string) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var userID string
	err = tx.QueryRow(ctx,
		`INSERT INTO users (external_id, email, name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (external_id) DO NOTHING
		 RETURNING id`,
		u.ExternalID, u.Email, u.Name,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO groups (name, user_id) VALUES ($1, $2)`,
		groupName, userID,
	)
	if err != nil {
		return false, fmt.Errorf("insert first group: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return true, nil
}

// DeleteUser removes the user; their groups go with them through the
// foreign key. It reports whether a row was deleted.
func (r *Repository) DeleteUser(ctx context.Context, externalID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE external_id = $1`, externalID)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
