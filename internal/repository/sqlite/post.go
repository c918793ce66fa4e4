package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/arefin/blog-api/internal/apperror"
	"github.com/arefin/blog-api/internal/model"
	"github.com/arefin/blog-api/internal/repository"
)

// PostDB implements repository.PostRepository on the shared connection
// pool. Obtain one via DB.Posts().
type PostDB struct {
	db *DB
}

// compile-time check that *PostDB implements repository.PostRepository
var _ repository.PostRepository = (*PostDB)(nil)

// Posts returns the post repository backed by this database.
func (db *DB) Posts() *PostDB {
	return &PostDB{db: db}
}

// Create inserts a new post. ID and timestamps are generated here and
// written back into the passed struct; UserID must already be set by the
// service layer to the authenticated owner.
func (p *PostDB) Create(ctx context.Context, post *model.Post) error {
	now := time.Now()
	post.ID = xid.New().String()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := p.db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, title, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Title,
		post.Body,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post.
// Returns apperror.ErrNotFound if the post doesn't exist.
func (p *PostDB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post

	err := p.db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, title, body, created_at, updated_at
		 FROM posts
		 WHERE id = ?`,
		id,
	).Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Body,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &post, nil
}

// List retrieves posts newest-first with LIMIT/OFFSET pagination.
// The secondary ORDER BY on id (xids are time-sortable) keeps the order
// stable for posts created within the same timestamp tick.
func (p *PostDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Post, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := p.db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, body, created_at, updated_at
		 FROM posts
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0, limit)

	for rows.Next() {
		var post model.Post
		if err := rows.Scan(
			&post.ID, &post.UserID, &post.Title, &post.Body,
			&post.CreatedAt, &post.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update rewrites the mutable fields (title, body) of an existing post.
// id, user_id, and created_at never change. RowsAffected == 0 means the
// WHERE clause matched nothing → not found.
func (p *PostDB) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()

	result, err := p.db.conn.ExecContext(ctx,
		`UPDATE posts
		 SET title = ?, body = ?, updated_at = ?
		 WHERE id = ?`,
		post.Title,
		post.Body,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post by ID. Same RowsAffected pattern as Update.
func (p *PostDB) Delete(ctx context.Context, id string) error {
	result, err := p.db.conn.ExecContext(ctx,
		`DELETE FROM posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
