package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"transferwiki/internal/data"
)

// WikiRepository defines the content-store operations the wiki service
// needs. Multi-row mutations (CreatePage, ApplyApprovedEdit, DeletePage)
// must be atomic: either every row change is visible or none is.
type WikiRepository interface {
	GetPageBySlug(ctx context.Context, slug string) (*data.Page, error)
	GetPageByID(ctx context.Context, id int64) (*data.Page, error)
	ListPages(ctx context.Context) ([]*data.Page, error)
	CreatePage(ctx context.Context, page *data.Page, edit *data.PageEdit) error
	InsertPendingEdit(ctx context.Context, edit *data.PageEdit) error
	ApplyApprovedEdit(ctx context.Context, page *data.Page, edit *data.PageEdit, expectedVersion int64) error
	GetEditByID(ctx context.Context, id int64) (*data.PageEdit, error)
	MarkEditRejected(ctx context.Context, id int64) error
	ListEditsByPage(ctx context.Context, pageID int64, limit, offset int) ([]*data.PageEdit, error)
	CountEditsByPage(ctx context.Context, pageID int64) (int64, error)
	ListPendingEdits(ctx context.Context) ([]*data.PageEdit, error)
	DeletePage(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
}

var _ WikiRepository = (*data.SQLWikiRepository)(nil)

// EditDraft carries the user-submitted fields of a page change.
type EditDraft struct {
	Title       string
	Description string
	Content     string
	Summary     string
	Category    string
	Tags        string
}

// ProposeResult is the outcome of ProposeEdit. Queued distinguishes the
// review path ("submitted for review") from the fast path ("saved"):
// exactly one of the two shapes is ever returned, never an ambiguous mix.
type ProposeResult struct {
	// Queued is true when the edit was placed in the moderation queue
	// and the page itself is untouched.
	Queued bool
	// Page is the updated page. Set on the fast path only.
	Page *data.Page
	// Edit is the recorded edit: APPROVED on the fast path, PENDING on
	// the review path.
	Edit *data.PageEdit
}

// History is a paginated slice of a page's edit records. Total counts all
// edit records regardless of status, even when Edits has been filtered for
// the requesting actor.
type History struct {
	Page  *data.Page
	Edits []*data.PageEdit
	Total int64
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// WikiService governs how a proposed page change becomes canonical content:
// it decides between the fast path and the review path, maintains the
// version history, and gates moderation behind the admin role.
type WikiService struct {
	repo     WikiRepository
	renderer *Renderer
}

// NewWikiService creates a new WikiService.
func NewWikiService(repo WikiRepository, renderer *Renderer) *WikiService {
	return &WikiService{repo: repo, renderer: renderer}
}

// CreatePage publishes a brand new page at version 1 with a single
// APPROVED edit record, atomically. Slugs are derived from the title; a
// collision gets a random suffix.
func (s *WikiService) CreatePage(ctx context.Context, actor *Actor, draft EditDraft) (*data.Page, error) {
	if actor == nil {
		return nil, forbidden("authentication required")
	}
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	slug := Slugify(draft.Title)
	if _, err := s.repo.GetPageBySlug(ctx, slug); err == nil {
		slug = suffixSlug(slug)
	} else if !errors.Is(err, data.ErrNotFound) {
		return nil, transient("failed to check slug", err)
	}

	page := &data.Page{
		Slug:         slug,
		Title:        draft.Title,
		Description:  draft.Description,
		Content:      draft.Content,
		IsPublished:  true,
		Category:     draft.Category,
		Tags:         draft.Tags,
		CreatedBy:    actor.ID,
		LastEditedBy: actor.ID,
	}
	summary := draft.Summary
	if summary == "" {
		summary = "initial version"
	}
	edit := &data.PageEdit{
		Title:       draft.Title,
		Description: draft.Description,
		Content:     draft.Content,
		Summary:     summary,
		SubmittedBy: actor.ID,
	}
	if err := s.repo.CreatePage(ctx, page, edit); err != nil {
		return nil, transient("failed to create page", err)
	}
	return page, nil
}

// ProposeEdit submits a change to an existing page. Admins and the page
// creator take the fast path: the page is mutated atomically together with
// an APPROVED edit record. Everyone else gets a PENDING edit in the review
// queue and the page stays untouched.
func (s *WikiService) ProposeEdit(ctx context.Context, slug string, actor *Actor, draft EditDraft) (*ProposeResult, error) {
	// Anonymous edits are never accepted, not even into the queue.
	if actor == nil {
		return nil, forbidden("authentication required")
	}
	if err := validateDraft(&draft); err != nil {
		return nil, err
	}

	page, err := s.repo.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load page")
	}

	edit := &data.PageEdit{
		PageID:      page.ID,
		Title:       draft.Title,
		Description: draft.Description,
		Content:     draft.Content,
		Summary:     draft.Summary,
		SubmittedBy: actor.ID,
	}

	if !CanEditDirectly(actor, page) {
		// Review path: record the version this edit would produce as
		// of submission time. Concurrent pending edits are independent
		// until one of them is approved.
		edit.Version = page.Version + 1
		if err := s.repo.InsertPendingEdit(ctx, edit); err != nil {
			return nil, transient("failed to queue edit", err)
		}
		return &ProposeResult{Queued: true, Edit: edit}, nil
	}

	// Fast path: compare-and-swap on the version we read, so two
	// concurrent direct edits cannot silently overwrite each other.
	expected := page.Version
	page.Title = draft.Title
	page.Description = draft.Description
	page.Content = draft.Content
	page.Version = expected + 1
	page.LastEditedBy = actor.ID
	if err := s.repo.ApplyApprovedEdit(ctx, page, edit, expected); err != nil {
		return nil, mapStoreErr(err, "failed to apply edit")
	}
	return &ProposeResult{Page: page, Edit: edit}, nil
}

// ApproveEdit applies a PENDING edit to its page. The new page version is
// derived from the page's live version at approval time, not from the
// version recorded when the edit was submitted; the edit record is
// renumbered to the applied version so approved history stays gap-free.
// The page's last editor becomes the edit's original submitter.
func (s *WikiService) ApproveEdit(ctx context.Context, editID int64, actor *Actor) (*data.Page, error) {
	if !CanModerate(actor) {
		return nil, forbidden("approving edits requires the admin role")
	}

	edit, err := s.repo.GetEditByID(ctx, editID)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load edit")
	}
	if edit.Status != data.EditStatusPending {
		return nil, conflict(fmt.Sprintf("edit %d is already %s", edit.ID, edit.Status), nil)
	}

	page, err := s.repo.GetPageByID(ctx, edit.PageID)
	if err != nil {
		// Referential integrity should make this impossible.
		return nil, transient("edit references a missing page", err)
	}

	expected := page.Version
	page.Title = edit.Title
	page.Description = edit.Description
	page.Content = edit.Content
	page.Version = expected + 1
	page.LastEditedBy = edit.SubmittedBy
	if err := s.repo.ApplyApprovedEdit(ctx, page, edit, expected); err != nil {
		return nil, mapStoreErr(err, "failed to apply approved edit")
	}
	return page, nil
}

// RejectEdit marks a PENDING edit REJECTED. The page is never touched, and
// a second decision on the same edit fails with a conflict.
func (s *WikiService) RejectEdit(ctx context.Context, editID int64, actor *Actor) error {
	if !CanModerate(actor) {
		return forbidden("rejecting edits requires the admin role")
	}
	if err := s.repo.MarkEditRejected(ctx, editID); err != nil {
		return mapStoreErr(err, "failed to reject edit")
	}
	return nil
}

// ListHistory returns a page's edit records, newest first. Admins and the
// page creator see every status; other actors only see APPROVED edits.
// Total always reports the unfiltered count so pagination stays stable
// across viewers.
func (s *WikiService) ListHistory(ctx context.Context, slug string, actor *Actor, limit, offset int) (*History, error) {
	page, err := s.repo.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load page")
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	edits, err := s.repo.ListEditsByPage(ctx, page.ID, limit, offset)
	if err != nil {
		return nil, transient("failed to list history", err)
	}
	total, err := s.repo.CountEditsByPage(ctx, page.ID)
	if err != nil {
		return nil, transient("failed to count history", err)
	}

	if !CanSeeAllHistory(actor, page) {
		visible := edits[:0]
		for _, e := range edits {
			if e.Status == data.EditStatusApproved {
				visible = append(visible, e)
			}
		}
		edits = visible
	}

	return &History{Page: page, Edits: edits, Total: total}, nil
}

// PendingEdits returns the moderation queue, oldest submission first.
func (s *WikiService) PendingEdits(ctx context.Context, actor *Actor) ([]*data.PageEdit, error) {
	if !CanModerate(actor) {
		return nil, forbidden("the moderation queue requires the admin role")
	}
	edits, err := s.repo.ListPendingEdits(ctx)
	if err != nil {
		return nil, transient("failed to list pending edits", err)
	}
	return edits, nil
}

// ViewPage loads a page for display, rendering its markdown and bumping
// the view counter.
func (s *WikiService) ViewPage(ctx context.Context, slug string) (*data.Page, error) {
	page, err := s.repo.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load page")
	}
	if s.renderer != nil {
		html, err := s.renderer.Render(renderKey(page), page.Content)
		if err != nil {
			return nil, transient("failed to render page", err)
		}
		page.HTMLContent = html
	}
	// View counting is best effort; a miss never fails the request.
	_ = s.repo.IncrementViewCount(ctx, page.ID)
	return page, nil
}

// GetPage loads a page without rendering or counting a view.
func (s *WikiService) GetPage(ctx context.Context, slug string) (*data.Page, error) {
	page, err := s.repo.GetPageBySlug(ctx, slug)
	if err != nil {
		return nil, mapStoreErr(err, "failed to load page")
	}
	return page, nil
}

// ListPages returns all published pages.
func (s *WikiService) ListPages(ctx context.Context) ([]*data.Page, error) {
	pages, err := s.repo.ListPages(ctx)
	if err != nil {
		return nil, transient("failed to list pages", err)
	}
	return pages, nil
}

// DeletePage removes a page and its edit history. Admin only; page
// creators cannot delete their own pages.
func (s *WikiService) DeletePage(ctx context.Context, slug string, actor *Actor) error {
	if !CanDeletePage(actor) {
		return forbidden("deleting pages requires the admin role")
	}
	page, err := s.repo.GetPageBySlug(ctx, slug)
	if err != nil {
		return mapStoreErr(err, "failed to load page")
	}
	if err := s.repo.DeletePage(ctx, page.ID); err != nil {
		return mapStoreErr(err, "failed to delete page")
	}
	return nil
}

func renderKey(page *data.Page) string {
	return fmt.Sprintf("page:%s:v%d", page.Slug, page.Version)
}

// validateDraft trims the draft in place and rejects empty title/content.
// Validation always runs before any write is attempted.
func validateDraft(draft *EditDraft) error {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Content = strings.TrimSpace(draft.Content)
	draft.Summary = strings.TrimSpace(draft.Summary)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.Tags = strings.TrimSpace(draft.Tags)
	if draft.Title == "" {
		return validation("title must not be empty")
	}
	if draft.Content == "" {
		return validation("content must not be empty")
	}
	return nil
}

// mapStoreErr converts sentinel repository errors into typed service
// errors; anything unrecognized is transient.
func mapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, data.ErrNotFound):
		return notFound(msg, err)
	case errors.Is(err, data.ErrVersionConflict), errors.Is(err, data.ErrEditNotPending):
		return conflict(msg, err)
	default:
		return transient(msg, err)
	}
}
