package handler

import (
	"net/http"
	"strconv"
	"transferwiki/internal/logger"
	"transferwiki/internal/middleware"
	"transferwiki/internal/service"
	"transferwiki/internal/session"
	"transferwiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// PageHandler holds the dependencies for the wiki page handlers.
type PageHandler struct {
	wiki     *service.WikiService
	comments *service.CommentService
	view     *view.View
	sessions session.Manager
	log      logger.Logger
}

// NewPageHandler creates a new PageHandler with the given dependencies.
func NewPageHandler(wiki *service.WikiService, comments *service.CommentService, v *view.View, sm session.Manager, log logger.Logger) *PageHandler {
	return &PageHandler{
		wiki:     wiki,
		comments: comments,
		view:     v,
		sessions: sm,
		log:      log,
	}
}

// View renders a page with its comments.
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	userInfo := middleware.GetUserInfo(r.Context())

	page, err := h.wiki.ViewPage(r.Context(), slug)
	if err != nil {
		if slug == "home" && service.IsKind(err, service.KindNotFound) {
			// A fresh install has no home page yet.
			if err := h.view.Render(w, "welcome.html", map[string]interface{}{"UserInfo": userInfo}); err != nil {
				return &middleware.AppError{Error: err, Message: "Failed to render welcome page", Code: http.StatusInternalServerError}
			}
			return nil
		}
		return appError(err, "Page not found")
	}

	comments, err := h.comments.ListComments(r.Context(), slug)
	if err != nil {
		return appError(err, "Failed to load comments")
	}

	data := map[string]interface{}{
		"Page":     page,
		"Comments": comments,
		"UserInfo": userInfo,
		"Flash":    h.sessions.PopString(r.Context(), "flash"),
	}
	if err := h.view.Render(w, "view.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render view", Code: http.StatusInternalServerError}
	}
	return nil
}

// New displays the form for creating a page.
func (h *PageHandler) New(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	data := map[string]interface{}{
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "new.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render new page form", Code: http.StatusInternalServerError}
	}
	return nil
}

// Create publishes a new page.
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	draft := service.EditDraft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Content:     r.FormValue("content"),
		Summary:     r.FormValue("summary"),
		Category:    r.FormValue("category"),
		Tags:        r.FormValue("tags"),
	}
	page, err := h.wiki.CreatePage(r.Context(), actorFrom(r), draft)
	if err != nil {
		return appError(err, "Failed to create page")
	}
	http.Redirect(w, r, "/view/"+page.Slug, http.StatusFound)
	return nil
}

// Edit displays the form for editing a page.
func (h *PageHandler) Edit(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	page, err := h.wiki.GetPage(r.Context(), slug)
	if err != nil {
		return appError(err, "Page not found")
	}

	userInfo := middleware.GetUserInfo(r.Context())
	data := map[string]interface{}{
		"Page":     page,
		"UserInfo": userInfo,
		"Direct":   service.CanEditDirectly(actorFrom(r), page),
	}
	if err := h.view.Render(w, "edit.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render edit page", Code: http.StatusInternalServerError}
	}
	return nil
}

// Save submits a page change. Privileged submitters see their change
// applied immediately; everyone else gets a "submitted for review" notice.
func (h *PageHandler) Save(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	draft := service.EditDraft{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Content:     r.FormValue("content"),
		Summary:     r.FormValue("summary"),
	}

	result, err := h.wiki.ProposeEdit(r.Context(), slug, actorFrom(r), draft)
	if err != nil {
		return appError(err, "Failed to save page")
	}

	if result.Queued {
		h.sessions.Put(r.Context(), "flash", "Your edit was submitted for review.")
	} else {
		h.sessions.Put(r.Context(), "flash", "Page saved.")
	}
	http.Redirect(w, r, "/view/"+slug, http.StatusFound)
	return nil
}

// History renders a page's edit history with pagination.
func (h *PageHandler) History(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	history, err := h.wiki.ListHistory(r.Context(), slug, actorFrom(r), limit, offset)
	if err != nil {
		return appError(err, "Failed to load history")
	}

	data := map[string]interface{}{
		"Page":     history.Page,
		"Edits":    history.Edits,
		"Total":    history.Total,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "history.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render history", Code: http.StatusInternalServerError}
	}
	return nil
}

// List renders the page index.
func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	pages, err := h.wiki.ListPages(r.Context())
	if err != nil {
		return appError(err, "Failed to retrieve pages")
	}

	data := map[string]interface{}{
		"Pages":    pages,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "list.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render list page", Code: http.StatusInternalServerError}
	}
	return nil
}

// Delete removes a page and its history. Admin only.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	if err := h.wiki.DeletePage(r.Context(), slug, actorFrom(r)); err != nil {
		return appError(err, "Failed to delete page")
	}
	http.Redirect(w, r, "/list", http.StatusFound)
	return nil
}

// AddComment posts a comment on a page.
func (h *PageHandler) AddComment(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	if _, err := h.comments.AddComment(r.Context(), actorFrom(r), slug, r.FormValue("content")); err != nil {
		return appError(err, "Failed to add comment")
	}
	http.Redirect(w, r, "/view/"+slug, http.StatusFound)
	return nil
}

// DeleteComment removes a comment. Author or admin only.
func (h *PageHandler) DeleteComment(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	slug := chi.URLParam(r, "slug")
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid comment id", Code: http.StatusBadRequest}
	}
	if err := h.comments.DeleteComment(r.Context(), actorFrom(r), id); err != nil {
		return appError(err, "Failed to delete comment")
	}
	http.Redirect(w, r, "/view/"+slug, http.StatusFound)
	return nil
}
