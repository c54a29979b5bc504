package service

import "transferwiki/internal/data"

// Actor is the authenticated identity performing an operation, as resolved
// from the identity provider and the profile store.
type Actor struct {
	ID   string
	Role data.Role
}

// Each capability below is an explicit predicate over the closed role set.
// Roles are deliberately not ordered, so adding a role never inherits a
// capability it was not granted here.

// CanEditDirectly reports whether the actor's edits to page apply
// immediately instead of entering the review queue.
func CanEditDirectly(actor *Actor, page *data.Page) bool {
	if actor == nil {
		return false
	}
	return actor.Role == data.RoleAdmin || actor.ID == page.CreatedBy
}

// CanModerate reports whether the actor may approve or reject pending edits.
func CanModerate(actor *Actor) bool {
	return actor != nil && actor.Role == data.RoleAdmin
}

// CanDeletePage reports whether the actor may delete a page. Stricter than
// editing: creators cannot delete their own pages.
func CanDeletePage(actor *Actor) bool {
	return actor != nil && actor.Role == data.RoleAdmin
}

// CanManageRoles reports whether the actor may change another profile's role.
func CanManageRoles(actor *Actor) bool {
	return actor != nil && actor.Role == data.RoleAdmin
}

// CanModifyContent reports whether the actor may edit or delete a forum
// topic, reply or comment authored by authorID.
func CanModifyContent(actor *Actor, authorID string) bool {
	if actor == nil {
		return false
	}
	return actor.Role == data.RoleAdmin || actor.ID == authorID
}

// CanSeeAllHistory reports whether the actor sees PENDING and REJECTED
// edits of page in its history, not only APPROVED ones.
func CanSeeAllHistory(actor *Actor, page *data.Page) bool {
	if actor == nil {
		return false
	}
	return actor.Role == data.RoleAdmin || actor.ID == page.CreatedBy
}
