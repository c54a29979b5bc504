//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func seedTestTopic(t *testing.T, repo *SQLForumRepository, category string) *ForumTopic {
	t.Helper()
	topic := &ForumTopic{
		Category: category,
		Title:    "Essay tips?",
		Content:  "How long should it be?",
		AuthorID: "author-1",
	}
	if err := repo.CreateTopic(context.Background(), topic); err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	return topic
}

func TestTopicAndReplyLifecycle(t *testing.T) {
	repo := NewSQLForumRepository(newTestDB(t))
	ctx := context.Background()
	topic := seedTestTopic(t, repo, "admissions")

	reply := &ForumReply{TopicID: topic.ID, Content: "Around 600 words.", AuthorID: "other-1"}
	if err := repo.CreateReply(ctx, reply); err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}
	if reply.ID == 0 {
		t.Fatal("expected reply id to be set")
	}

	got, err := repo.GetTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if got.ReplyCount != 1 {
		t.Errorf("expected reply count 1, got %d", got.ReplyCount)
	}

	replies, err := repo.ListReplies(ctx, topic.ID)
	if err != nil {
		t.Fatalf("ListReplies failed: %v", err)
	}
	if len(replies) != 1 || replies[0].Content != "Around 600 words." {
		t.Errorf("unexpected replies: %+v", replies)
	}

	if err := repo.DeleteReply(ctx, reply.ID); err != nil {
		t.Fatalf("DeleteReply failed: %v", err)
	}
	got, err = repo.GetTopic(ctx, topic.ID)
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if got.ReplyCount != 0 {
		t.Errorf("expected reply count back to 0, got %d", got.ReplyCount)
	}
}

func TestReplyToMissingTopicRollsBack(t *testing.T) {
	repo := NewSQLForumRepository(newTestDB(t))
	ctx := context.Background()

	reply := &ForumReply{TopicID: 42, Content: "Orphan.", AuthorID: "x"}
	if err := repo.CreateReply(ctx, reply); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// The insert must not survive the failed transaction.
	replies, err := repo.ListReplies(ctx, 42)
	if err != nil {
		t.Fatalf("ListReplies failed: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("expected no orphaned replies, got %d", len(replies))
	}
}

func TestListTopicsByCategory(t *testing.T) {
	repo := NewSQLForumRepository(newTestDB(t))
	ctx := context.Background()
	seedTestTopic(t, repo, "admissions")
	seedTestTopic(t, repo, "admissions")
	seedTestTopic(t, repo, "visas")

	all, err := repo.ListTopics(ctx, "", 10, 0)
	if err != nil {
		t.Fatalf("ListTopics failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 topics, got %d", len(all))
	}

	scoped, err := repo.ListTopics(ctx, "admissions", 10, 0)
	if err != nil {
		t.Fatalf("ListTopics failed: %v", err)
	}
	if len(scoped) != 2 {
		t.Errorf("expected 2 admissions topics, got %d", len(scoped))
	}

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "admissions" || categories[1] != "visas" {
		t.Errorf("unexpected categories: %v", categories)
	}
}

func TestDeleteTopicRemovesReplies(t *testing.T) {
	repo := NewSQLForumRepository(newTestDB(t))
	ctx := context.Background()
	topic := seedTestTopic(t, repo, "admissions")

	if err := repo.CreateReply(ctx, &ForumReply{TopicID: topic.ID, Content: "r1", AuthorID: "x"}); err != nil {
		t.Fatalf("CreateReply failed: %v", err)
	}
	if err := repo.DeleteTopic(ctx, topic.ID); err != nil {
		t.Fatalf("DeleteTopic failed: %v", err)
	}
	if _, err := repo.GetTopic(ctx, topic.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected topic gone, got %v", err)
	}
	replies, err := repo.ListReplies(ctx, topic.ID)
	if err != nil {
		t.Fatalf("ListReplies failed: %v", err)
	}
	if len(replies) != 0 {
		t.Errorf("expected replies gone, got %d", len(replies))
	}
}
