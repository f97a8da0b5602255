// ABOUTME: Post persistence for SQLiteStore
// ABOUTME: Posts are append-only and listed newest first

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreatePost inserts a post and returns the stored row, including the id
// SQLite assigned. A zero CreatedAt is stamped with the current time.
func (s *SQLiteStore) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (title, content, created_at) VALUES (?, ?, ?)",
		post.Title,
		post.Content,
		createdAt.UTC().Format(postTimeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting post id: %w", err)
	}

	s.logger.Debug("created post", "id", id)
	return s.GetPost(ctx, id)
}

// GetPost retrieves a post by id.
// Returns ErrNotFound if the post doesn't exist.
func (s *SQLiteStore) GetPost(ctx context.Context, id int64) (*Post, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, content, created_at FROM posts WHERE id = ?", id,
	)

	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying post: %w", err)
	}
	return post, nil
}

// ListPosts returns posts newest first, breaking timestamp ties by id.
// A limit of zero or less returns every post.
func (s *SQLiteStore) ListPosts(ctx context.Context, limit int) ([]*Post, error) {
	query := `
		SELECT id, title, content, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var createdAtStr sql.NullString

	if err := row.Scan(&post.ID, &post.Title, &post.Content, &createdAtStr); err != nil {
		return nil, err
	}

	if createdAtStr.Valid {
		createdAt, err := parseTimestamp(createdAtStr.String)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		post.CreatedAt = createdAt
	}

	return &post, nil
}
