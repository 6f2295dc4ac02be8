package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// ExistenceRepo is the durable side of the known-user and created-post sets,
// backed by the id-only users and posts tables. The Redis wrapper in
// internal/cache fronts it for reads.
type ExistenceRepo struct {
	db *sql.DB
}

// NewExistenceRepository creates a new PostgreSQL existence repository
func NewExistenceRepository(db *sql.DB) *ExistenceRepo {
	return &ExistenceRepo{db: db}
}

func (r *ExistenceRepo) UserKnown(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	return exists, nil
}

// AddUser is idempotent so redelivered user.created events are harmless.
func (r *ExistenceRepo) AddUser(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, userID)
	if err != nil {
		return fmt.Errorf("failed to record user %s: %w", userID, err)
	}
	return nil
}

func (r *ExistenceRepo) RemoveUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to remove user %s: %w", userID, err)
	}
	return nil
}

func (r *ExistenceRepo) PostKnown(ctx context.Context, postID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post %s: %w", postID, err)
	}
	return exists, nil
}

func (r *ExistenceRepo) AddPost(ctx context.Context, postID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		postID, userID)
	if err != nil {
		return fmt.Errorf("failed to record post %s: %w", postID, err)
	}
	return nil
}

func (r *ExistenceRepo) RemovePost(ctx context.Context, postID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID); err != nil {
		return fmt.Errorf("failed to remove post %s: %w", postID, err)
	}
	return nil
}
