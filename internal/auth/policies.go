package auth

import (
	"fmt"
	"transferwiki/internal/logger"

	"github.com/casbin/casbin/v2"
)

// SeedDefaultPolicies ensures the application has a baseline set of route
// authorization rules. Each policy is checked before being added, so the
// operation is idempotent and safe on every start.
//
// Subjects here are the lowercased profile roles plus "anonymous". Route
// policies only gate URLs; the business decision between the fast path and
// the review path is made by the service-layer predicates.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	policies := [][]string{
		// Anonymous visitors can read everything public.
		{"anonymous", "/view/*", "GET"},
		{"anonymous", "/history/*", "GET"},
		{"anonymous", "/list", "GET"},
		{"anonymous", "/forum", "GET"},
		{"anonymous", "/forum/*", "GET"},
		{"anonymous", "/profile/*", "GET"},
		{"anonymous", "/static/*", "GET"},
		{"anonymous", "/auth/login", "GET"},
		{"anonymous", "/auth/callback", "GET"},

		// Signed-in users can contribute content. Non-privileged page
		// edits land in the review queue, gated by the service layer.
		{"user", "/new", "GET"},
		{"user", "/create", "POST"},
		{"user", "/edit/*", "GET"},
		{"user", "/save/*", "POST"},
		{"user", "/comments/*", "POST"},
		{"user", "/forum/new", "GET"},
		{"user", "/forum/topics", "POST"},
		{"user", "/forum/topic/*", "POST"},
		{"user", "/forum/reply/*", "POST"},
		{"user", "/profile", "POST"},
		{"user", "/auth/logout", "POST"},

		// Admins moderate and manage.
		{"admin", "/moderation", "GET"},
		{"admin", "/moderation/*", "POST"},
		{"admin", "/delete/*", "POST"},
		{"admin", "/admin/role", "POST"},
	}
	for _, p := range policies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Role inheritance chains route access only; service capabilities
	// stay explicit per role.
	groupings := [][2]string{
		{"user", "anonymous"},
		{"editor", "user"},
		{"admin", "editor"},
	}
	for _, g := range groupings {
		if has, _ := e.HasRoleForUser(g[0], g[1]); !has {
			if _, err := e.AddRoleForUser(g[0], g[1]); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add role %s -> %s", g[0], g[1]))
			}
		}
	}
	log.Info("Policy seeding complete.")
}
