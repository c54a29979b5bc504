package data

import (
	"html/template"
	"time"
)

// Role is the closed set of profile roles. Capabilities are granted by
// explicit predicate, never by comparing roles against each other.
type Role string

const (
	RoleUser   Role = "USER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// ValidRole reports whether s is a member of the closed role set.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// EditStatus is the moderation state of a PageEdit. APPROVED and REJECTED
// are terminal.
type EditStatus string

const (
	EditStatusPending  EditStatus = "PENDING"
	EditStatusApproved EditStatus = "APPROVED"
	EditStatusRejected EditStatus = "REJECTED"
)

// Profile represents a registered user. The ID is the subject claim issued
// by the identity provider.
type Profile struct {
	ID          string    `db:"id"`
	DisplayName string    `db:"display_name"`
	AvatarURL   string    `db:"avatar_url"`
	Bio         string    `db:"bio"`
	Role        Role      `db:"role"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Page represents a single wiki page. Version always equals the version of
// the most recent APPROVED PageEdit for the page.
type Page struct {
	ID           int64         `db:"id"`
	Slug         string        `db:"slug"`
	Title        string        `db:"title"`
	Description  string        `db:"description"`
	Content      string        `db:"content"`
	HTMLContent  template.HTML `db:"-"`
	Version      int64         `db:"version"`
	IsPublished  bool          `db:"is_published"`
	ViewCount    int64         `db:"view_count"`
	Category     string        `db:"category"`
	Tags         string        `db:"tags"`
	CreatedBy    string        `db:"created_by"`
	LastEditedBy string        `db:"last_edited_by"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

// PageEdit is the version/moderation record for one proposed or applied
// change to a Page. While PENDING, Version holds the version the edit would
// have produced at submission time; on approval it is rewritten to the
// version actually applied.
type PageEdit struct {
	ID          int64      `db:"id"`
	PageID      int64      `db:"page_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Content     string     `db:"content"`
	Version     int64      `db:"version"`
	Status      EditStatus `db:"status"`
	Summary     string     `db:"summary"`
	SubmittedBy string     `db:"submitted_by"`
	CreatedAt   time.Time  `db:"created_at"`

	// Populated via JOIN for moderation queue listings.
	PageSlug string `db:"page_slug"`
}

// ForumTopic is a flat forum thread scoped to a category.
type ForumTopic struct {
	ID         int64     `db:"id"`
	Category   string    `db:"category"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	AuthorID   string    `db:"author_id"`
	ReplyCount int64     `db:"reply_count"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ForumReply is a single reply within a topic.
type ForumReply struct {
	ID        int64     `db:"id"`
	TopicID   int64     `db:"topic_id"`
	Content   string    `db:"content"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Comment is a flat comment attached to a page by slug.
type Comment struct {
	ID        int64     `db:"id"`
	PageSlug  string    `db:"page_slug"`
	Content   string    `db:"content"`
	AuthorID  string    `db:"author_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
