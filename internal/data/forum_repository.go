package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLForumRepository is the sqlx-backed store for forum topics and replies.
type SQLForumRepository struct {
	db *sqlx.DB
}

// NewSQLForumRepository creates a new SQLForumRepository.
func NewSQLForumRepository(db *sqlx.DB) *SQLForumRepository {
	return &SQLForumRepository{db: db}
}

const topicColumns = `id, category, title, content, author_id, reply_count, created_at, updated_at`

const replyColumns = `id, topic_id, content, author_id, created_at, updated_at`

// CreateTopic inserts a new topic.
func (r *SQLForumRepository) CreateTopic(ctx context.Context, topic *ForumTopic) error {
	now := time.Now().UTC()
	topic.CreatedAt = now
	topic.UpdatedAt = now
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO forum_topics
		(category, title, content, author_id, reply_count, created_at, updated_at)
		VALUES (:category, :title, :content, :author_id, :reply_count, :created_at, :updated_at)`, topic)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted topic id: %w", err)
	}
	topic.ID = id
	return nil
}

// GetTopic retrieves a single topic by ID.
func (r *SQLForumRepository) GetTopic(ctx context.Context, id int64) (*ForumTopic, error) {
	var topic ForumTopic
	query := `SELECT ` + topicColumns + ` FROM forum_topics WHERE id = ?`
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("topic id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get topic: %w", err)
	}
	return &topic, nil
}

// ListTopics retrieves topics in a category, most recently active first.
// An empty category lists across all categories.
func (r *SQLForumRepository) ListTopics(ctx context.Context, category string, limit, offset int) ([]*ForumTopic, error) {
	var topics []*ForumTopic
	if category == "" {
		query := `SELECT ` + topicColumns + ` FROM forum_topics ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
		if err := r.db.SelectContext(ctx, &topics, query, limit, offset); err != nil {
			return nil, fmt.Errorf("failed to list topics: %w", err)
		}
		return topics, nil
	}
	query := `SELECT ` + topicColumns + ` FROM forum_topics WHERE category = ? ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &topics, query, category, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// ListCategories retrieves the distinct set of categories in use.
func (r *SQLForumRepository) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM forum_topics ORDER BY category`); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateReply inserts a reply and bumps the parent topic's reply count and
// activity timestamp in the same transaction.
func (r *SQLForumRepository) CreateReply(ctx context.Context, reply *ForumReply) error {
	now := time.Now().UTC()
	reply.CreatedAt = now
	reply.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create reply tx: %w", err)
	}
	defer tx.Rollback()

	res, err := sqlx.NamedExecContext(ctx, tx, `INSERT INTO forum_replies
		(topic_id, content, author_id, created_at, updated_at)
		VALUES (:topic_id, :content, :author_id, :created_at, :updated_at)`, reply)
	if err != nil {
		return fmt.Errorf("failed to create reply: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted reply id: %w", err)
	}
	reply.ID = id

	bump, err := tx.ExecContext(ctx, `UPDATE forum_topics SET reply_count = reply_count + 1, updated_at = ? WHERE id = ?`,
		now, reply.TopicID)
	if err != nil {
		return fmt.Errorf("failed to bump topic: %w", err)
	}
	affected, err := bump.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("topic id %d: %w", reply.TopicID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit create reply tx: %w", err)
	}
	return nil
}

// GetReply retrieves a single reply by ID.
func (r *SQLForumRepository) GetReply(ctx context.Context, id int64) (*ForumReply, error) {
	var reply ForumReply
	query := `SELECT ` + replyColumns + ` FROM forum_replies WHERE id = ?`
	if err := r.db.GetContext(ctx, &reply, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reply id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reply: %w", err)
	}
	return &reply, nil
}

// ListReplies retrieves all replies to a topic, oldest first.
func (r *SQLForumRepository) ListReplies(ctx context.Context, topicID int64) ([]*ForumReply, error) {
	var replies []*ForumReply
	query := `SELECT ` + replyColumns + ` FROM forum_replies WHERE topic_id = ? ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &replies, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to list replies: %w", err)
	}
	return replies, nil
}

// DeleteTopic removes a topic and all its replies.
func (r *SQLForumRepository) DeleteTopic(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete topic tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM forum_replies WHERE topic_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete replies: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM forum_topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("topic id %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete topic tx: %w", err)
	}
	return nil
}

// DeleteReply removes a reply and decrements its topic's reply count.
func (r *SQLForumRepository) DeleteReply(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete reply tx: %w", err)
	}
	defer tx.Rollback()

	var topicID int64
	if err := tx.GetContext(ctx, &topicID, `SELECT topic_id FROM forum_replies WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("reply id %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to get reply topic: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM forum_replies WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete reply: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE forum_topics SET reply_count = reply_count - 1 WHERE id = ? AND reply_count > 0`, topicID); err != nil {
		return fmt.Errorf("failed to decrement reply count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete reply tx: %w", err)
	}
	return nil
}
