package handler

import (
	"net/http"
	appmw "transferwiki/internal/middleware"
	"transferwiki/internal/session"
	"transferwiki/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the application router.
func NewRouter(
	pages *PageHandler,
	moderation *ModerationHandler,
	forum *ForumHandler,
	profiles *ProfileHandler,
	authHandler *AuthHandler,
	authz func(http.Handler) http.Handler,
	errorMW func(appmw.AppHandler) http.Handler,
	sm session.Manager,
) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(sm.LoadAndSave)
	r.Use(authz)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/view/home", http.StatusFound)
	})

	// Static assets
	r.Method("GET", "/static/*", http.FileServer(http.FS(web.StaticFS)))

	// Authentication
	r.Get("/auth/login", authHandler.Login)
	r.Get("/auth/callback", authHandler.Callback)
	r.Post("/auth/logout", authHandler.Logout)

	// Wiki pages
	r.Method("GET", "/view/{slug}", errorMW(pages.View))
	r.Method("GET", "/history/{slug}", errorMW(pages.History))
	r.Method("GET", "/list", errorMW(pages.List))
	r.Method("GET", "/new", errorMW(pages.New))
	r.Method("POST", "/create", errorMW(pages.Create))
	r.Method("GET", "/edit/{slug}", errorMW(pages.Edit))
	r.Method("POST", "/save/{slug}", errorMW(pages.Save))
	r.Method("POST", "/delete/{slug}", errorMW(pages.Delete))

	// Comments
	r.Method("POST", "/comments/{slug}", errorMW(pages.AddComment))
	r.Method("POST", "/comments/{slug}/delete/{id}", errorMW(pages.DeleteComment))

	// Moderation queue
	r.Method("GET", "/moderation", errorMW(moderation.Queue))
	r.Method("POST", "/moderation/{editID}/approve", errorMW(moderation.Approve))
	r.Method("POST", "/moderation/{editID}/reject", errorMW(moderation.Reject))

	// Forum
	r.Method("GET", "/forum", errorMW(forum.Index))
	r.Method("GET", "/forum/new", errorMW(forum.NewTopic))
	r.Method("POST", "/forum/topics", errorMW(forum.CreateTopic))
	r.Method("GET", "/forum/topic/{id}", errorMW(forum.Topic))
	r.Method("POST", "/forum/topic/{id}/reply", errorMW(forum.Reply))
	r.Method("POST", "/forum/topic/{id}/delete", errorMW(forum.DeleteTopic))
	r.Method("POST", "/forum/reply/{id}/delete", errorMW(forum.DeleteReply))
	r.Method("GET", "/forum/{category}", errorMW(forum.Category))

	// Profiles
	r.Method("GET", "/profile/{id}", errorMW(profiles.Show))
	r.Method("POST", "/profile", errorMW(profiles.Update))
	r.Method("POST", "/admin/role", errorMW(profiles.SetRole))

	return r
}
