package middleware

import (
	"context"
	"net/http"

	"hrconsole/internal/transport/http/api"
)

// PermissionStore answers whether a role carries a permission key. The
// pgx-backed implementation lives in internal/domain/auth; tests substitute
// stubs.
type PermissionStore interface {
	HasPermission(ctx context.Context, role, permission string) (bool, error)
}

// RequirePermission gates a route on one permission key. It assumes Auth ran
// earlier in the chain; a request with no user on the context gets 401, a
// role without the key gets 403.
func RequirePermission(permission string, store PermissionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := GetUser(r.Context())
			if !ok {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
				return
			}

			allowed, err := store.HasPermission(r.Context(), user.Role, permission)
			switch {
			case err != nil:
				api.Fail(w, http.StatusInternalServerError, "permission_error", "permission check failed", GetRequestID(r.Context()))
			case !allowed:
				api.Fail(w, http.StatusForbidden, "forbidden", "insufficient permissions", GetRequestID(r.Context()))
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
