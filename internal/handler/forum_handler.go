package handler

import (
	"net/http"
	"strconv"
	"transferwiki/internal/middleware"
	"transferwiki/internal/service"
	"transferwiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// ForumHandler serves the forum pages.
type ForumHandler struct {
	forum *service.ForumService
	view  *view.View
}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler(forum *service.ForumService, v *view.View) *ForumHandler {
	return &ForumHandler{forum: forum, view: v}
}

// Index renders the forum front page: categories and recent topics.
func (h *ForumHandler) Index(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	categories, err := h.forum.ListCategories(r.Context())
	if err != nil {
		return appError(err, "Failed to load categories")
	}
	topics, err := h.forum.ListTopics(r.Context(), "", 0, 0)
	if err != nil {
		return appError(err, "Failed to load topics")
	}

	data := map[string]interface{}{
		"Categories": categories,
		"Topics":     topics,
		"UserInfo":   middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "forum.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render forum", Code: http.StatusInternalServerError}
	}
	return nil
}

// Category renders the topics in one category.
func (h *ForumHandler) Category(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	category := chi.URLParam(r, "category")
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	topics, err := h.forum.ListTopics(r.Context(), category, 0, offset)
	if err != nil {
		return appError(err, "Failed to load topics")
	}

	data := map[string]interface{}{
		"Category": category,
		"Topics":   topics,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "forum_category.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render category", Code: http.StatusInternalServerError}
	}
	return nil
}

// NewTopic displays the form for starting a topic.
func (h *ForumHandler) NewTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	data := map[string]interface{}{
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "forum_new.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render new topic form", Code: http.StatusInternalServerError}
	}
	return nil
}

// CreateTopic posts a new topic.
func (h *ForumHandler) CreateTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	topic, err := h.forum.CreateTopic(r.Context(), actorFrom(r),
		r.FormValue("category"), r.FormValue("title"), r.FormValue("content"))
	if err != nil {
		return appError(err, "Failed to create topic")
	}
	http.Redirect(w, r, "/forum/topic/"+strconv.FormatInt(topic.ID, 10), http.StatusFound)
	return nil
}

// Topic renders one topic with its replies.
func (h *ForumHandler) Topic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid topic id", Code: http.StatusBadRequest}
	}
	topic, replies, err := h.forum.GetTopic(r.Context(), id)
	if err != nil {
		return appError(err, "Topic not found")
	}

	data := map[string]interface{}{
		"Topic":    topic,
		"Replies":  replies,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "forum_topic.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render topic", Code: http.StatusInternalServerError}
	}
	return nil
}

// Reply posts a reply to a topic.
func (h *ForumHandler) Reply(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid topic id", Code: http.StatusBadRequest}
	}
	if _, err := h.forum.Reply(r.Context(), actorFrom(r), id, r.FormValue("content")); err != nil {
		return appError(err, "Failed to post reply")
	}
	http.Redirect(w, r, "/forum/topic/"+strconv.FormatInt(id, 10), http.StatusFound)
	return nil
}

// DeleteTopic removes a topic. Author or admin only.
func (h *ForumHandler) DeleteTopic(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid topic id", Code: http.StatusBadRequest}
	}
	if err := h.forum.DeleteTopic(r.Context(), actorFrom(r), id); err != nil {
		return appError(err, "Failed to delete topic")
	}
	http.Redirect(w, r, "/forum", http.StatusFound)
	return nil
}

// DeleteReply removes a reply. Author or admin only.
func (h *ForumHandler) DeleteReply(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid reply id", Code: http.StatusBadRequest}
	}
	if err := h.forum.DeleteReply(r.Context(), actorFrom(r), id); err != nil {
		return appError(err, "Failed to delete reply")
	}
	http.Redirect(w, r, "/forum", http.StatusFound)
	return nil
}
