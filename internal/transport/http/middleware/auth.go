package middleware

import (
	"context"
	"net/http"
	"strings"

	"hrconsole/internal/auth"
	domainauth "hrconsole/internal/domain/auth"
)

// Auth parses a bearer token when present. It never rejects on its own;
// routes that need an identity gate through RequireAuth or RequirePermission.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, domainauth.UserContext{
				UserID:      claims.UserID,
				Username:    claims.Username,
				Name:        claims.Name,
				Role:        claims.Role,
				Designation: claims.Designation,
				EmployeeID:  claims.EmployeeID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", false
	}
	return token, true
}

func GetUser(ctx context.Context) (domainauth.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(domainauth.UserContext)
	return user, ok
}
