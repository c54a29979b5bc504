//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
)

func seedTestPage(t *testing.T, repo *SQLWikiRepository) *Page {
	t.Helper()
	page := &Page{
		Slug:         "transfer-guide",
		Title:        "Transfer Guide",
		Content:      "Apply early.",
		IsPublished:  true,
		CreatedBy:    "creator-1",
		LastEditedBy: "creator-1",
	}
	edit := &PageEdit{
		Title:       page.Title,
		Content:     page.Content,
		Summary:     "initial version",
		SubmittedBy: "creator-1",
	}
	if err := repo.CreatePage(context.Background(), page, edit); err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}
	return page
}

func TestCreateAndGetPage(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()

	page := seedTestPage(t, repo)
	if page.ID == 0 || page.Version != 1 {
		t.Fatalf("unexpected created page: %+v", page)
	}

	got, err := repo.GetPageBySlug(ctx, "transfer-guide")
	if err != nil {
		t.Fatalf("GetPageBySlug failed: %v", err)
	}
	if got.ID != page.ID || got.Title != "Transfer Guide" {
		t.Errorf("unexpected page: %+v", got)
	}

	byID, err := repo.GetPageByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetPageByID failed: %v", err)
	}
	if byID.Slug != page.Slug {
		t.Errorf("unexpected page by id: %+v", byID)
	}

	// The initial APPROVED edit record exists at v1.
	edits, err := repo.ListEditsByPage(ctx, page.ID, 10, 0)
	if err != nil {
		t.Fatalf("ListEditsByPage failed: %v", err)
	}
	if len(edits) != 1 || edits[0].Status != EditStatusApproved || edits[0].Version != 1 {
		t.Errorf("unexpected initial history: %+v", edits)
	}
}

func TestGetPageNotFound(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))

	if _, err := repo.GetPageBySlug(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetEditByID(context.Background(), 12345); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestApplyApprovedEditFastPath(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	expected := page.Version
	page.Content = "Apply early and often."
	page.Version = expected + 1
	edit := &PageEdit{
		Title:       page.Title,
		Content:     page.Content,
		Summary:     "expand",
		SubmittedBy: "creator-1",
	}
	if err := repo.ApplyApprovedEdit(ctx, page, edit, expected); err != nil {
		t.Fatalf("ApplyApprovedEdit failed: %v", err)
	}
	if edit.ID == 0 || edit.Status != EditStatusApproved || edit.Version != 2 {
		t.Errorf("unexpected inserted edit: %+v", edit)
	}

	got, err := repo.GetPageBySlug(ctx, page.Slug)
	if err != nil {
		t.Fatalf("GetPageBySlug failed: %v", err)
	}
	if got.Version != 2 || got.Content != "Apply early and often." {
		t.Errorf("unexpected page after edit: %+v", got)
	}
}

func TestApplyApprovedEditVersionConflict(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	stale := *page
	stale.Version = 2
	if err := repo.ApplyApprovedEdit(ctx, &stale, &PageEdit{SubmittedBy: "a"}, 1); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	// Replaying with the stale expected version must fail without touching
	// the page or inserting an edit.
	loser := *page
	loser.Version = 2
	err := repo.ApplyApprovedEdit(ctx, &loser, &PageEdit{SubmittedBy: "b"}, 1)
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
	count, err := repo.CountEditsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("CountEditsByPage failed: %v", err)
	}
	if count != 2 {
		t.Errorf("conflicting write must not insert an edit, got %d rows", count)
	}
}

func TestApprovePendingEdit(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	pending := &PageEdit{
		PageID:      page.ID,
		Title:       "Transfer Guide",
		Content:     "A community take.",
		Version:     page.Version + 1,
		Summary:     "rewrite",
		SubmittedBy: "other-1",
	}
	if err := repo.InsertPendingEdit(ctx, pending); err != nil {
		t.Fatalf("InsertPendingEdit failed: %v", err)
	}
	if pending.Status != EditStatusPending {
		t.Fatalf("expected PENDING, got %s", pending.Status)
	}

	// Approving transitions the existing row and bumps the page.
	page.Title = pending.Title
	page.Content = pending.Content
	page.Version = 2
	page.LastEditedBy = pending.SubmittedBy
	if err := repo.ApplyApprovedEdit(ctx, page, pending, 1); err != nil {
		t.Fatalf("ApplyApprovedEdit failed: %v", err)
	}

	stored, err := repo.GetEditByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetEditByID failed: %v", err)
	}
	if stored.Status != EditStatusApproved || stored.Version != 2 {
		t.Errorf("expected APPROVED v2 row, got %s v%d", stored.Status, stored.Version)
	}

	// A second transition of the same row is refused.
	err = repo.ApplyApprovedEdit(ctx, page, pending, 2)
	if !errors.Is(err, ErrEditNotPending) {
		t.Errorf("expected ErrEditNotPending, got %v", err)
	}
}

func TestMarkEditRejected(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	pending := &PageEdit{
		PageID:      page.ID,
		Title:       "Transfer Guide",
		Content:     "Nope.",
		Version:     2,
		SubmittedBy: "other-1",
	}
	if err := repo.InsertPendingEdit(ctx, pending); err != nil {
		t.Fatalf("InsertPendingEdit failed: %v", err)
	}

	if err := repo.MarkEditRejected(ctx, pending.ID); err != nil {
		t.Fatalf("MarkEditRejected failed: %v", err)
	}
	stored, err := repo.GetEditByID(ctx, pending.ID)
	if err != nil {
		t.Fatalf("GetEditByID failed: %v", err)
	}
	if stored.Status != EditStatusRejected {
		t.Errorf("expected REJECTED, got %s", stored.Status)
	}

	if err := repo.MarkEditRejected(ctx, pending.ID); !errors.Is(err, ErrEditNotPending) {
		t.Errorf("expected ErrEditNotPending on a decided edit, got %v", err)
	}
	if err := repo.MarkEditRejected(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing edit, got %v", err)
	}

	// The page row is untouched either way.
	got, err := repo.GetPageBySlug(ctx, page.Slug)
	if err != nil {
		t.Fatalf("GetPageBySlug failed: %v", err)
	}
	if got.Version != 1 {
		t.Errorf("expected page to stay at v1, got v%d", got.Version)
	}
}

func TestListPendingEditsQueue(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	for i, by := range []string{"first", "second"} {
		edit := &PageEdit{
			PageID:      page.ID,
			Title:       "Transfer Guide",
			Content:     "Take.",
			Version:     int64(i + 2),
			SubmittedBy: by,
		}
		if err := repo.InsertPendingEdit(ctx, edit); err != nil {
			t.Fatalf("InsertPendingEdit failed: %v", err)
		}
	}

	queue, err := repo.ListPendingEdits(ctx)
	if err != nil {
		t.Fatalf("ListPendingEdits failed: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected 2 pending edits, got %d", len(queue))
	}
	if queue[0].SubmittedBy != "first" || queue[1].SubmittedBy != "second" {
		t.Errorf("expected oldest first, got (%s, %s)", queue[0].SubmittedBy, queue[1].SubmittedBy)
	}
	if queue[0].PageSlug != page.Slug {
		t.Errorf("expected joined page slug %q, got %q", page.Slug, queue[0].PageSlug)
	}
}

func TestDeletePageCascades(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	if err := repo.DeletePage(ctx, page.ID); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	if _, err := repo.GetPageBySlug(ctx, page.Slug); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected page gone, got %v", err)
	}
	count, err := repo.CountEditsByPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("CountEditsByPage failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected history gone, got %d rows", count)
	}

	if err := repo.DeletePage(ctx, page.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestIncrementViewCount(t *testing.T) {
	repo := NewSQLWikiRepository(newTestDB(t))
	ctx := context.Background()
	page := seedTestPage(t, repo)

	if err := repo.IncrementViewCount(ctx, page.ID); err != nil {
		t.Fatalf("IncrementViewCount failed: %v", err)
	}
	if err := repo.IncrementViewCount(ctx, page.ID); err != nil {
		t.Fatalf("IncrementViewCount failed: %v", err)
	}
	got, err := repo.GetPageBySlug(ctx, page.Slug)
	if err != nil {
		t.Fatalf("GetPageBySlug failed: %v", err)
	}
	if got.ViewCount != 2 {
		t.Errorf("expected view count 2, got %d", got.ViewCount)
	}
}
