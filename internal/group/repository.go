// Package group manages image groups and their ownership.
package group

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Group is a named collection of images owned by one user.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrNotFound is returned when a group does not exist.
var ErrNotFound = errors.New("group not found")

// Repository handles all group database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new group owned by userID.
func (r *Repository) Create(ctx context.Context, userID, name string) (*Group, error) {
	g := &Group{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO groups (name, user_id)
		 VALUES ($1, $2)
		 RETURNING id, name, user_id, created_at`,
		name, userID,
	).Scan(&g.ID, &g.Name, &g.UserID, &g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return g, nil
}

// GetByID fetches a group by its UUID.
func (r *Repository) GetByID(ctx context.Context, id string) (*Group, error) {
	g := &Group{}
	err := r.db.QueryRow(ctx,
		`SELECT id, name, user_id, created_at FROM groups WHERE id = $1`,
		id,
	).Scan(&g.ID, &g.Name, &g.UserID, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get group by id: %w", err)
	}
	return g, nil
}

// ListByUser returns the user's groups, oldest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Group, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, user_id, created_at
		 FROM groups
		 WHERE user_id = $1
		 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Group, error) {
		var g Group
		err := row.Scan(&g.ID, &g.Name, &g.UserID, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan groups: %w", err)
	}
	return groups, nil
}

// Delete removes the group row. Its stored images are not touched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
