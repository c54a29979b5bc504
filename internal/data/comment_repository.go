package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLCommentRepository is the sqlx-backed store for page comments.
type SQLCommentRepository struct {
	db *sqlx.DB
}

// NewSQLCommentRepository creates a new SQLCommentRepository.
func NewSQLCommentRepository(db *sqlx.DB) *SQLCommentRepository {
	return &SQLCommentRepository{db: db}
}

// CreateComment inserts a new comment.
func (r *SQLCommentRepository) CreateComment(ctx context.Context, comment *Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO comments
		(page_slug, content, author_id, created_at, updated_at)
		VALUES (:page_slug, :content, :author_id, :created_at, :updated_at)`, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetComment retrieves a single comment by ID.
func (r *SQLCommentRepository) GetComment(ctx context.Context, id int64) (*Comment, error) {
	var comment Comment
	query := `SELECT id, page_slug, content, author_id, created_at, updated_at FROM comments WHERE id = ?`
	if err := r.db.GetContext(ctx, &comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// ListCommentsByPage retrieves all comments on a page, oldest first.
func (r *SQLCommentRepository) ListCommentsByPage(ctx context.Context, pageSlug string) ([]*Comment, error) {
	var comments []*Comment
	query := `SELECT id, page_slug, content, author_id, created_at, updated_at FROM comments WHERE page_slug = ? ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &comments, query, pageSlug); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment by ID.
func (r *SQLCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("comment id %d: %w", id, ErrNotFound)
	}
	return nil
}
