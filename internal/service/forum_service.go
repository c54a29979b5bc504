package service

import (
	"context"
	"strings"
	"transferwiki/internal/data"
)

// ForumRepository defines the content-store operations for forum topics
// and replies.
type ForumRepository interface {
	CreateTopic(ctx context.Context, topic *data.ForumTopic) error
	GetTopic(ctx context.Context, id int64) (*data.ForumTopic, error)
	ListTopics(ctx context.Context, category string, limit, offset int) ([]*data.ForumTopic, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateReply(ctx context.Context, reply *data.ForumReply) error
	GetReply(ctx context.Context, id int64) (*data.ForumReply, error)
	ListReplies(ctx context.Context, topicID int64) ([]*data.ForumReply, error)
	DeleteTopic(ctx context.Context, id int64) error
	DeleteReply(ctx context.Context, id int64) error
}

var _ ForumRepository = (*data.SQLForumRepository)(nil)

const defaultTopicLimit = 50

// ForumService provides the flat forum CRUD. There is no moderation
// workflow here; content is live as soon as it is posted.
type ForumService struct {
	repo ForumRepository
}

// NewForumService creates a new ForumService.
func NewForumService(repo ForumRepository) *ForumService {
	return &ForumService{repo: repo}
}

// CreateTopic posts a new topic in a category.
func (s *ForumService) CreateTopic(ctx context.Context, actor *Actor, category, title, content string) (*data.ForumTopic, error) {
	if actor == nil {
		return nil, forbidden("authentication required")
	}
	category = strings.TrimSpace(category)
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if category == "" {
		return nil, validation("category must not be empty")
	}
	if title == "" {
		return nil, validation("title must not be empty")
	}
	if content == "" {
		return nil, validation("content must not be empty")
	}

	topic := &data.ForumTopic{
		Category: category,
		Title:    title,
		Content:  content,
		AuthorID: actor.ID,
	}
	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, transient("failed to create topic", err)
	}
	return topic, nil
}

// GetTopic loads a topic with its replies.
func (s *ForumService) GetTopic(ctx context.Context, id int64) (*data.ForumTopic, []*data.ForumReply, error) {
	topic, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return nil, nil, mapStoreErr(err, "failed to load topic")
	}
	replies, err := s.repo.ListReplies(ctx, id)
	if err != nil {
		return nil, nil, transient("failed to list replies", err)
	}
	return topic, replies, nil
}

// ListTopics lists topics, optionally scoped to a category.
func (s *ForumService) ListTopics(ctx context.Context, category string, limit, offset int) ([]*data.ForumTopic, error) {
	if limit <= 0 {
		limit = defaultTopicLimit
	}
	if offset < 0 {
		offset = 0
	}
	topics, err := s.repo.ListTopics(ctx, strings.TrimSpace(category), limit, offset)
	if err != nil {
		return nil, transient("failed to list topics", err)
	}
	return topics, nil
}

// ListCategories lists the categories currently in use.
func (s *ForumService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, transient("failed to list categories", err)
	}
	return categories, nil
}

// Reply posts a reply to a topic.
func (s *ForumService) Reply(ctx context.Context, actor *Actor, topicID int64, content string) (*data.ForumReply, error) {
	if actor == nil {
		return nil, forbidden("authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validation("content must not be empty")
	}
	if _, err := s.repo.GetTopic(ctx, topicID); err != nil {
		return nil, mapStoreErr(err, "failed to load topic")
	}

	reply := &data.ForumReply{
		TopicID:  topicID,
		Content:  content,
		AuthorID: actor.ID,
	}
	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, mapStoreErr(err, "failed to create reply")
	}
	return reply, nil
}

// DeleteTopic removes a topic and its replies. Author or admin only.
func (s *ForumService) DeleteTopic(ctx context.Context, actor *Actor, id int64) error {
	topic, err := s.repo.GetTopic(ctx, id)
	if err != nil {
		return mapStoreErr(err, "failed to load topic")
	}
	if !CanModifyContent(actor, topic.AuthorID) {
		return forbidden("only the author or an admin can delete a topic")
	}
	if err := s.repo.DeleteTopic(ctx, id); err != nil {
		return mapStoreErr(err, "failed to delete topic")
	}
	return nil
}

// DeleteReply removes a reply. Author or admin only.
func (s *ForumService) DeleteReply(ctx context.Context, actor *Actor, id int64) error {
	reply, err := s.repo.GetReply(ctx, id)
	if err != nil {
		return mapStoreErr(err, "failed to load reply")
	}
	if !CanModifyContent(actor, reply.AuthorID) {
		return forbidden("only the author or an admin can delete a reply")
	}
	if err := s.repo.DeleteReply(ctx, id); err != nil {
		return mapStoreErr(err, "failed to delete reply")
	}
	return nil
}
