package handler

import (
	"net/http"
	"transferwiki/internal/middleware"
	"transferwiki/internal/service"
	"transferwiki/internal/view"

	"github.com/go-chi/chi/v5"
)

// ProfileHandler serves profile pages and role management.
type ProfileHandler struct {
	profiles *service.ProfileService
	view     *view.View
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, v *view.View) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, view: v}
}

// Show renders a profile page.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := chi.URLParam(r, "id")
	profile, err := h.profiles.GetProfile(r.Context(), id)
	if err != nil {
		return appError(err, "Profile not found")
	}

	userInfo := middleware.GetUserInfo(r.Context())
	data := map[string]interface{}{
		"Profile":  profile,
		"UserInfo": userInfo,
		"Own":      userInfo.Subject == profile.ID,
	}
	if err := h.view.Render(w, "profile.html", data); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render profile", Code: http.StatusInternalServerError}
	}
	return nil
}

// Update changes the signed-in user's own display name, bio and avatar.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	actor := actorFrom(r)
	profile, err := h.profiles.UpdateOwnProfile(r.Context(), actor,
		r.FormValue("display_name"), r.FormValue("bio"), r.FormValue("avatar_url"))
	if err != nil {
		return appError(err, "Failed to update profile")
	}
	http.Redirect(w, r, "/profile/"+profile.ID, http.StatusFound)
	return nil
}

// SetRole changes another profile's role. Admin only.
func (h *ProfileHandler) SetRole(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	subject := r.FormValue("subject")
	role := r.FormValue("role")
	if err := h.profiles.SetRole(r.Context(), actorFrom(r), subject, role); err != nil {
		return appError(err, "Failed to change role")
	}
	http.Redirect(w, r, "/profile/"+subject, http.StatusFound)
	return nil
}
