package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"Loom/internal/core/replies"
)

type postgresReplyRepo struct {
	db *sql.DB
}

// NewReplyRepository creates a new PostgreSQL reply repository
func NewReplyRepository(db *sql.DB) replies.Repository {
	return &postgresReplyRepo{db: db}
}

const replyColumns = "id, root_id, reply_to_id, user_id, content, created_at, path"

// Create inserts a reply. The path is computed by the service before the
// insert; the unique index on path enforces that no two replies share one.
func (r *postgresReplyRepo) Create(ctx context.Context, reply *replies.Reply) error {
	query := `
		INSERT INTO replies (id, root_id, reply_to_id, user_id, content, created_at, path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		reply.ID, reply.RootID, reply.ParentID, reply.UserID,
		reply.Content, reply.CreatedAt, reply.Path,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reply: %w", err)
	}
	return nil
}

func (r *postgresReplyRepo) GetByID(ctx context.Context, replyID string) (*replies.Reply, error) {
	query := `SELECT ` + replyColumns + ` FROM replies WHERE id = $1`
	reply, err := scanReply(r.db.QueryRowContext(ctx, query, replyID))
	if err == sql.ErrNoRows {
		return nil, replies.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reply %s: %w", replyID, err)
	}
	return reply, nil
}

func (r *postgresReplyRepo) Update(ctx context.Context, replyID, content string) (*replies.Reply, error) {
	query := `
		UPDATE replies SET content = $2
		WHERE id = $1
		RETURNING ` + replyColumns
	reply, err := scanReply(r.db.QueryRowContext(ctx, query, replyID, content))
	if err == sql.ErrNoRows {
		return nil, replies.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update reply %s: %w", replyID, err)
	}
	return reply, nil
}

func (r *postgresReplyRepo) GetAllByPost(ctx context.Context, postID string) ([]*replies.Reply, error) {
	query := `
		SELECT ` + replyColumns + `
		FROM replies
		WHERE root_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query replies for post %s: %w", postID, err)
	}
	defer rows.Close()
	return collectReplies(rows)
}

// GetAllByPosts fetches replies for many roots in one query and buckets them
// by root in memory.
func (r *postgresReplyRepo) GetAllByPosts(ctx context.Context, postIDs []string) (map[string][]*replies.Reply, error) {
	if len(postIDs) == 0 {
		return map[string][]*replies.Reply{}, nil
	}
	query := `
		SELECT ` + replyColumns + `
		FROM replies
		WHERE root_id = ANY($1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query replies batch: %w", err)
	}
	defer rows.Close()

	flat, err := collectReplies(rows)
	if err != nil {
		return nil, err
	}
	result := make(map[string][]*replies.Reply)
	for _, reply := range flat {
		result[reply.RootID] = append(result[reply.RootID], reply)
	}
	return result, nil
}

// GetSubtree returns the reply and all descendants via the path prefix
// index.
func (r *postgresReplyRepo) GetSubtree(ctx context.Context, replyID string) ([]*replies.Reply, error) {
	target, err := r.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + replyColumns + `
		FROM replies
		WHERE id = $1 OR path LIKE $2 || '%'
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, replyID, replies.PathPrefix(target.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to query subtree of %s: %w", replyID, err)
	}
	defer rows.Close()
	return collectReplies(rows)
}

// DeleteSubtree removes the reply and its descendants in one transaction and
// returns the removed ids.
func (r *postgresReplyRepo) DeleteSubtree(ctx context.Context, replyID string) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var path string
	err = tx.QueryRowContext(ctx, `SELECT path FROM replies WHERE id = $1`, replyID).Scan(&path)
	if err == sql.ErrNoRows {
		return nil, replies.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reply %s: %w", replyID, err)
	}

	rows, err := tx.QueryContext(ctx, `
		DELETE FROM replies
		WHERE id = $1 OR path LIKE $2 || '%'
		RETURNING id
	`, replyID, replies.PathPrefix(path))
	if err != nil {
		return nil, fmt.Errorf("failed to delete subtree of %s: %w", replyID, err)
	}
	ids, err := collectIDs(rows)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit subtree delete: %w", err)
	}
	return ids, nil
}

func (r *postgresReplyRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		DELETE FROM replies WHERE user_id = $1 RETURNING id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete replies for user %s: %w", userID, err)
	}
	return collectIDs(rows)
}

func (r *postgresReplyRepo) DeleteByPost(ctx context.Context, postID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		DELETE FROM replies WHERE root_id = $1 RETURNING id
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete replies for post %s: %w", postID, err)
	}
	return collectIDs(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReply(row rowScanner) (*replies.Reply, error) {
	var reply replies.Reply
	err := row.Scan(
		&reply.ID, &reply.RootID, &reply.ParentID, &reply.UserID,
		&reply.Content, &reply.CreatedAt, &reply.Path,
	)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

func collectReplies(rows *sql.Rows) ([]*replies.Reply, error) {
	var result []*replies.Reply
	for rows.Next() {
		reply, err := scanReply(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reply: %w", err)
		}
		result = append(result, reply)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate replies: %w", err)
	}
	return result, nil
}

func collectIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ids: %w", err)
	}
	return ids, nil
}
