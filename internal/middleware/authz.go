package middleware

import (
	"net/http"
	"strings"
	"transferwiki/internal/service"
	"transferwiki/internal/session"

	"github.com/casbin/casbin/v2"
)

// Authorizer creates the authorization middleware. It resolves the session
// subject into a profile, stores the identity in the request context, and
// enforces the route policy using the profile's role ("anonymous" when no
// one is signed in).
func Authorizer(e casbin.IEnforcer, sm session.Manager, profiles *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := sm.GetString(r.Context(), "user_subject")

			userInfo := &UserInfo{}
			role := "anonymous"
			if subject != "" {
				profile, err := profiles.GetProfile(r.Context(), subject)
				if err != nil {
					// A session pointing at a deleted profile is
					// treated as anonymous rather than an error.
					if service.KindOf(err) != service.KindNotFound {
						http.Error(w, "Authorization error", http.StatusInternalServerError)
						return
					}
				} else {
					userInfo = &UserInfo{
						Subject:     profile.ID,
						DisplayName: profile.DisplayName,
						Role:        profile.Role,
					}
					role = strings.ToLower(string(profile.Role))
				}
			}

			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(role, r.URL.Path, r.Method)
			if err != nil {
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}
			if !allowed {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
