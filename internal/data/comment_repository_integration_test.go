//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func TestCommentLifecycle(t *testing.T) {
	repo := NewSQLCommentRepository(newTestDB(t))
	ctx := context.Background()

	first := &Comment{PageSlug: "transfer-guide", Content: "Nice page.", AuthorID: "a"}
	if err := repo.CreateComment(ctx, first); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}
	second := &Comment{PageSlug: "transfer-guide", Content: "Agreed.", AuthorID: "b"}
	if err := repo.CreateComment(ctx, second); err != nil {
		t.Fatalf("CreateComment failed: %v", err)
	}

	comments, err := repo.ListCommentsByPage(ctx, "transfer-guide")
	if err != nil {
		t.Fatalf("ListCommentsByPage failed: %v", err)
	}
	if len(comments) != 2 || comments[0].ID != first.ID {
		t.Errorf("expected 2 comments oldest first, got %+v", comments)
	}

	got, err := repo.GetComment(ctx, second.ID)
	if err != nil {
		t.Fatalf("GetComment failed: %v", err)
	}
	if got.AuthorID != "b" {
		t.Errorf("unexpected comment: %+v", got)
	}

	if err := repo.DeleteComment(ctx, first.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if err := repo.DeleteComment(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}
