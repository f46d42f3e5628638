package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/pulseboard/internal/domain/post/entity"
)

// PostPostgres implements PostRepository for PostgreSQL
type PostPostgres struct {
	pool *pgxpool.Pool
}

// NewPostPostgres creates a new PostgreSQL post repository
func NewPostPostgres(pool *pgxpool.Pool) *PostPostgres {
	return &PostPostgres{pool: pool}
}

// Create inserts a new post
func (r *PostPostgres) Create(ctx context.Context, post *entity.Post) error {
	query := `
		INSERT INTO posts (id, user_id, platform, caption, likes, comments, shares,
		                   engagement_rate, posted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.UserID,
		post.Platform,
		post.Caption,
		post.Likes,
		post.Comments,
		post.Shares,
		post.EngagementRate,
		post.PostedAt,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *PostPostgres) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	query := `
		SELECT id, user_id, platform, caption, likes, comments, shares,
		       engagement_rate, posted_at, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)

	post, err := scanPost(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}

	return post, nil
}

// Delete removes a post
func (r *PostPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM posts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// ListByUser retrieves posts for a user, most recent first
func (r *PostPostgres) ListByUser(ctx context.Context, userID string, filter PostFilter, opts ListOptions) ([]entity.Post, error) {
	query := `
		SELECT id, user_id, platform, caption, likes, comments, shares,
		       engagement_rate, posted_at, created_at, updated_at
		FROM posts
		WHERE user_id = $1
	`
	args := []interface{}{userID}
	argNum := 2

	if filter.Platform != nil {
		query += fmt.Sprintf(" AND platform = $%d", argNum)
		args = append(args, *filter.Platform)
		argNum++
	}

	query += " ORDER BY posted_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, opts.Limit)
		argNum++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, opts.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

// CountByUser returns the number of posts matching the filter
func (r *PostPostgres) CountByUser(ctx context.Context, userID string, filter PostFilter) (int64, error) {
	query := "SELECT COUNT(*) FROM posts WHERE user_id = $1"
	args := []interface{}{userID}

	if filter.Platform != nil {
		query += " AND platform = $2"
		args = append(args, *filter.Platform)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting posts: %w", err)
	}

	return count, nil
}

// UpdateEngagement updates only the engagement counters of a post
func (r *PostPostgres) UpdateEngagement(ctx context.Context, id string, likes, comments, shares *int) error {
	query := `
		UPDATE posts
		SET likes = $2, comments = $3, shares = $4, updated_at = $5
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, likes, comments, shares, time.Now())
	if err != nil {
		return fmt.Errorf("updating post engagement: %w", err)
	}

	return nil
}

// ListStale retrieves posts last refreshed before the cutoff
func (r *PostPostgres) ListStale(ctx context.Context, updatedBefore time.Time, limit int) ([]entity.Post, error) {
	query := `
		SELECT id, user_id, platform, caption, likes, comments, shares,
		       engagement_rate, posted_at, created_at, updated_at
		FROM posts
		WHERE updated_at < $1
		ORDER BY updated_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, updatedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("querying stale posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	var post entity.Post
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Platform,
		&post.Caption,
		&post.Likes,
		&post.Comments,
		&post.Shares,
		&post.EngagementRate,
		&post.PostedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func collectPosts(rows pgx.Rows) ([]entity.Post, error) {
	var posts []entity.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post row: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating post rows: %w", err)
	}
	return posts, nil
}
