package handler

import (
	"net/http"
	"strconv"
	"transferwiki/internal/middleware"
	"transferwiki/internal/service"
	"transferwiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// ModerationHandler serves the admin review queue.
type ModerationHandler struct {
	wiki *service.WikiService
	view *view.View
}

// NewModerationHandler creates a new ModerationHandler.
func NewModerationHandler(wiki *service.WikiService, v *view.View) *ModerationHandler {
	return &ModerationHandler{wiki: wiki, view: v}
}

// Queue renders the pending edits awaiting review, oldest first.
func (h *ModerationHandler) Queue(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	edits, err := h.wiki.PendingEdits(r.Context(), actorFrom(r))
	if err != nil {
		return appError(err, "Failed to load moderation queue")
	}

	data := map[string]interface{}{
		"Edits":    edits,
		"UserInfo": middleware.GetUserInfo(r.Context()),
	}
	if err := h.view.Render(w, "moderation.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render moderation queue", Code: http.StatusInternalServerError}
	}
	return nil
}

// Approve applies a pending edit to its page.
func (h *ModerationHandler) Approve(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "editID"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid edit id", Code: http.StatusBadRequest}
	}
	if _, err := h.wiki.ApproveEdit(r.Context(), id, actorFrom(r)); err != nil {
		return appError(err, "Failed to approve edit")
	}
	http.Redirect(w, r, "/moderation", http.StatusFound)
	return nil
}

// Reject declines a pending edit without touching the page.
func (h *ModerationHandler) Reject(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id, err := strconv.ParseInt(chi.URLParam(r, "editID"), 10, 64)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Invalid edit id", Code: http.StatusBadRequest}
	}
	if err := h.wiki.RejectEdit(r.Context(), id, actorFrom(r)); err != nil {
		return appError(err, "Failed to reject edit")
	}
	http.Redirect(w, r, "/moderation", http.StatusFound)
	return nil
}
