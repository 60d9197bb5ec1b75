package rbac

import (
	"encoding/json"
	"net/http"
)

var defaultPolicy = NewPolicy(nil)

// Require rejects requests whose role lacks perm.
func Require(perm string) func(http.Handler) http.Handler {
	return guard(func(role string) bool { return defaultPolicy.Allows(role, perm) })
}

// RequireAny rejects requests whose role holds none of perms.
func RequireAny(perms ...string) func(http.Handler) http.Handler {
	return guard(func(role string) bool { return defaultPolicy.AllowsAny(role, perms...) })
}

func guard(allowed func(role string) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if role := RoleFromContext(r.Context()); role == "" || !allowed(role) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
