package blog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/khallude/Healthify-Solutions-sub001/pkg/database"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/logger"
	"github.com/khallude/Healthify-Solutions-sub001/pkg/types"
)

// Repository implements blog post persistence on PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new blog repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

const postColumns = `id, author_id, title, body, tags, published, created_at, updated_at`

// Create creates a new blog post
func (r *Repository) Create(ctx context.Context, post *types.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, author_id, title, body, tags, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Body,
		pq.Array(post.Tags),
		post.Published,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	r.logger.Info("Blog post created", "post_id", post.ID, "author_id", post.AuthorID)
	return nil
}

// GetByID retrieves a blog post by ID
func (r *Repository) GetByID(ctx context.Context, id string) (*types.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE id = $1`

	var post types.BlogPost
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Body,
		pq.Array(&post.Tags),
		&post.Published,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodePostNotFound, "Blog post not found")
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}

	return &post, nil
}

// ListPublished retrieves published posts, newest first
func (r *Repository) ListPublished(ctx context.Context, limit, offset int) ([]*types.BlogPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE published = true ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	defer rows.Close()

	var posts []*types.BlogPost
	for rows.Next() {
		var post types.BlogPost
		err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.Title,
			&post.Body,
			pq.Array(&post.Tags),
			&post.Published,
			&post.CreatedAt,
			&post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post row: %w", err)
		}
		posts = append(posts, &post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blog post rows: %w", err)
	}

	return posts, nil
}

// Update replaces the mutable fields of a post
func (r *Repository) Update(ctx context.Context, post *types.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $1, body = $2, tags = $3, published = $4, updated_at = now()
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		post.Title,
		post.Body,
		pq.Array(post.Tags),
		post.Published,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}

	return r.requireRow(result)
}

// Delete removes a blog post
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	return r.requireRow(result)
}

func (r *Repository) requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodePostNotFound, "Blog post not found")
	}
	return nil
}
