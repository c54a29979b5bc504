package service

import (
	"context"
	"strings"
	"transferwiki/internal/data"
)

// CommentRepository defines the content-store operations for page comments.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *data.Comment) error
	GetComment(ctx context.Context, id int64) (*data.Comment, error)
	ListCommentsByPage(ctx context.Context, pageSlug string) ([]*data.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
}

var _ CommentRepository = (*data.SQLCommentRepository)(nil)

// CommentService provides flat comment threads on wiki pages.
type CommentService struct {
	repo  CommentRepository
	pages WikiRepository
}

// NewCommentService creates a new CommentService. The wiki repository is
// consulted so comments can only be attached to pages that exist.
func NewCommentService(repo CommentRepository, pages WikiRepository) *CommentService {
	return &CommentService{repo: repo, pages: pages}
}

// AddComment posts a comment on a page.
func (s *CommentService) AddComment(ctx context.Context, actor *Actor, pageSlug, content string) (*data.Comment, error) {
	if actor == nil {
		return nil, forbidden("authentication required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validation("content must not be empty")
	}
	if _, err := s.pages.GetPageBySlug(ctx, pageSlug); err != nil {
		return nil, mapStoreErr(err, "failed to load page")
	}

	comment := &data.Comment{
		PageSlug: pageSlug,
		Content:  content,
		AuthorID: actor.ID,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, transient("failed to create comment", err)
	}
	return comment, nil
}

// ListComments lists the comments on a page, oldest first.
func (s *CommentService) ListComments(ctx context.Context, pageSlug string) ([]*data.Comment, error) {
	comments, err := s.repo.ListCommentsByPage(ctx, pageSlug)
	if err != nil {
		return nil, transient("failed to list comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Author or admin only.
func (s *CommentService) DeleteComment(ctx context.Context, actor *Actor, id int64) error {
	comment, err := s.repo.GetComment(ctx, id)
	if err != nil {
		return mapStoreErr(err, "failed to load comment")
	}
	if !CanModifyContent(actor, comment.AuthorID) {
		return forbidden("only the author or an admin can delete a comment")
	}
	if err := s.repo.DeleteComment(ctx, id); err != nil {
		return mapStoreErr(err, "failed to delete comment")
	}
	return nil
}
