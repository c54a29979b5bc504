package handler

import (
	"net/http"
	"transferwiki/internal/auth"
	"transferwiki/internal/service"
	"transferwiki/internal/session"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/google/uuid"
)

// AuthHandler holds the dependencies for the authentication handlers.
type AuthHandler struct {
	auth     *auth.Authenticator
	sessions session.Manager
	profiles *service.ProfileService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(a *auth.Authenticator, sm session.Manager, profiles *service.ProfileService) *AuthHandler {
	return &AuthHandler{auth: a, sessions: sm, profiles: profiles}
}

// Login redirects the user to the OIDC provider. A random 'state' value is
// stored in the session for CSRF protection.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	h.sessions.Put(r.Context(), "oauth_state", state)
	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// Callback is the redirect URL for the OIDC provider. It exchanges the
// authorization code, verifies the ID token, and ensures a profile exists
// for the subject before establishing the session.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.PopString(r.Context(), "oauth_state")
	if state == "" || r.URL.Query().Get("state") != state {
		http.Error(w, "state did not match", http.StatusBadRequest)
		return
	}

	oauth2Token, err := h.auth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		http.Error(w, "Failed to exchange token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		http.Error(w, "No id_token field in oauth2 token", http.StatusInternalServerError)
		return
	}

	idToken, err := h.auth.IDTokenVerifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		http.Error(w, "Failed to verify ID Token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	displayName := displayNameFromClaims(idToken)
	if _, err := h.profiles.EnsureProfile(r.Context(), idToken.Subject, displayName); err != nil {
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	h.sessions.Put(r.Context(), "user_subject", idToken.Subject)
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func displayNameFromClaims(idToken *oidc.IDToken) string {
	var claims struct {
		Name              string `json:"name"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return ""
	}
	if claims.Name != "" {
		return claims.Name
	}
	return claims.PreferredUsername
}
