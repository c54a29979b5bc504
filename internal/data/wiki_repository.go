package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLWikiRepository is the sqlx-backed content store for pages and their
// edit history. Multi-row mutations run inside a single transaction so a
// half-applied page update is never observable.
type SQLWikiRepository struct {
	db *sqlx.DB
}

// NewSQLWikiRepository creates a new SQLWikiRepository.
func NewSQLWikiRepository(db *sqlx.DB) *SQLWikiRepository {
	return &SQLWikiRepository{db: db}
}

const pageColumns = `id, slug, title, description, content, version, is_published, view_count, category, tags, created_by, last_edited_by, created_at, updated_at`

const editColumns = `id, page_id, title, description, content, version, status, summary, submitted_by, created_at`

// GetPageBySlug retrieves a single page by its slug.
func (r *SQLWikiRepository) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	var page Page
	query := `SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`
	if err := r.db.GetContext(ctx, &page, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page %q: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page by slug: %w", err)
	}
	return &page, nil
}

// GetPageByID retrieves a single page by its ID.
func (r *SQLWikiRepository) GetPageByID(ctx context.Context, id int64) (*Page, error) {
	var page Page
	query := `SELECT ` + pageColumns + ` FROM pages WHERE id = ?`
	if err := r.db.GetContext(ctx, &page, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("page id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page by id: %w", err)
	}
	return &page, nil
}

// ListPages retrieves all published pages ordered by title.
func (r *SQLWikiRepository) ListPages(ctx context.Context) ([]*Page, error) {
	var pages []*Page
	query := `SELECT ` + pageColumns + ` FROM pages WHERE is_published = 1 ORDER BY title`
	if err := r.db.SelectContext(ctx, &pages, query); err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// CreatePage inserts a new page at version 1 together with its first
// APPROVED edit record. Both rows are committed atomically.
func (r *SQLWikiRepository) CreatePage(ctx context.Context, page *Page, edit *PageEdit) error {
	now := time.Now().UTC()
	page.Version = 1
	page.CreatedAt = now
	page.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin create page tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.NamedExecContext(ctx, `INSERT INTO pages
		(slug, title, description, content, version, is_published, view_count, category, tags, created_by, last_edited_by, created_at, updated_at)
		VALUES (:slug, :title, :description, :content, :version, :is_published, :view_count, :category, :tags, :created_by, :last_edited_by, :created_at, :updated_at)`, page)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted page id: %w", err)
	}
	page.ID = id

	edit.PageID = id
	edit.Version = 1
	edit.Status = EditStatusApproved
	edit.CreatedAt = now
	if err := insertEdit(ctx, tx, edit); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit create page tx: %w", err)
	}
	return nil
}

// InsertPendingEdit appends a PENDING edit record. The page row is untouched.
func (r *SQLWikiRepository) InsertPendingEdit(ctx context.Context, edit *PageEdit) error {
	edit.Status = EditStatusPending
	edit.CreatedAt = time.Now().UTC()
	return insertEdit(ctx, r.db, edit)
}

func insertEdit(ctx context.Context, e sqlx.ExtContext, edit *PageEdit) error {
	res, err := sqlx.NamedExecContext(ctx, e, `INSERT INTO page_edits
		(page_id, title, description, content, version, status, summary, submitted_by, created_at)
		VALUES (:page_id, :title, :description, :content, :version, :status, :summary, :submitted_by, :created_at)`, edit)
	if err != nil {
		return fmt.Errorf("failed to insert page edit: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted edit id: %w", err)
	}
	edit.ID = id
	return nil
}

// ApplyApprovedEdit atomically applies an edit's content to its page and
// records the edit as APPROVED at the applied version.
//
// The page update is a compare-and-swap on the version the caller read:
// if another writer bumped the page in the meantime the update matches no
// rows and ErrVersionConflict is returned with nothing committed.
//
// When edit.ID is zero the edit is a fast-path edit and is inserted fresh
// as APPROVED; otherwise the existing PENDING row is transitioned, and a
// concurrent transition surfaces as ErrEditNotPending.
func (r *SQLWikiRepository) ApplyApprovedEdit(ctx context.Context, page *Page, edit *PageEdit, expectedVersion int64) error {
	now := time.Now().UTC()
	page.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin apply edit tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE pages
		SET title = ?, description = ?, content = ?, version = ?, last_edited_by = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		page.Title, page.Description, page.Content, page.Version, page.LastEditedBy, page.UpdatedAt,
		page.ID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update page: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("page id %d at version %d: %w", page.ID, expectedVersion, ErrVersionConflict)
	}

	if edit.ID == 0 {
		edit.PageID = page.ID
		edit.Version = page.Version
		edit.Status = EditStatusApproved
		edit.CreatedAt = now
		if err := insertEdit(ctx, tx, edit); err != nil {
			return err
		}
	} else {
		res, err := tx.ExecContext(ctx, `UPDATE page_edits SET status = ?, version = ? WHERE id = ? AND status = ?`,
			EditStatusApproved, page.Version, edit.ID, EditStatusPending)
		if err != nil {
			return fmt.Errorf("failed to approve page edit: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("edit id %d: %w", edit.ID, ErrEditNotPending)
		}
		edit.Status = EditStatusApproved
		edit.Version = page.Version
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit apply edit tx: %w", err)
	}
	return nil
}

// GetEditByID retrieves a single edit record.
func (r *SQLWikiRepository) GetEditByID(ctx context.Context, id int64) (*PageEdit, error) {
	var edit PageEdit
	query := `SELECT ` + editColumns + ` FROM page_edits WHERE id = ?`
	if err := r.db.GetContext(ctx, &edit, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("edit id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get edit by id: %w", err)
	}
	return &edit, nil
}

// MarkEditRejected transitions a PENDING edit to REJECTED. The page row is
// never touched.
func (r *SQLWikiRepository) MarkEditRejected(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE page_edits SET status = ? WHERE id = ? AND status = ?`,
		EditStatusRejected, id, EditStatusPending)
	if err != nil {
		return fmt.Errorf("failed to reject page edit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		// Distinguish a missing edit from one already decided.
		var exists int
		if err := r.db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM page_edits WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to check edit existence: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("edit id %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("edit id %d: %w", id, ErrEditNotPending)
	}
	return nil
}

// ListEditsByPage retrieves edit records for a page, newest first.
func (r *SQLWikiRepository) ListEditsByPage(ctx context.Context, pageID int64, limit, offset int) ([]*PageEdit, error) {
	var edits []*PageEdit
	query := `SELECT ` + editColumns + ` FROM page_edits WHERE page_id = ? ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &edits, query, pageID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list edits: %w", err)
	}
	return edits, nil
}

// CountEditsByPage reports the total number of edit records for a page,
// regardless of status.
func (r *SQLWikiRepository) CountEditsByPage(ctx context.Context, pageID int64) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM page_edits WHERE page_id = ?`, pageID); err != nil {
		return 0, fmt.Errorf("failed to count edits: %w", err)
	}
	return count, nil
}

// ListPendingEdits retrieves the moderation queue across all pages, oldest
// first, with the owning page's slug joined in.
func (r *SQLWikiRepository) ListPendingEdits(ctx context.Context) ([]*PageEdit, error) {
	var edits []*PageEdit
	query := `SELECT e.id, e.page_id, e.title, e.description, e.content, e.version, e.status, e.summary, e.submitted_by, e.created_at, p.slug AS page_slug
		FROM page_edits e JOIN pages p ON p.id = e.page_id
		WHERE e.status = ? ORDER BY e.created_at, e.id`
	if err := r.db.SelectContext(ctx, &edits, query, EditStatusPending); err != nil {
		return nil, fmt.Errorf("failed to list pending edits: %w", err)
	}
	return edits, nil
}

// DeletePage removes a page and its entire edit history.
func (r *SQLWikiRepository) DeletePage(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete page tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM page_edits WHERE page_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete page edits: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("page id %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete page tx: %w", err)
	}
	return nil
}

// IncrementViewCount bumps a page's view counter. Best effort; callers may
// ignore the error.
func (r *SQLWikiRepository) IncrementViewCount(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE pages SET view_count = view_count + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}
