package galleryhandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrconsole/internal/auth"
	domainauth "hrconsole/internal/domain/auth"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
)

type stubPerms struct {
	allowed bool
}

func (s stubPerms) HasPermission(ctx context.Context, role, permission string) (bool, error) {
	return s.allowed, nil
}

func newRouter(t *testing.T, perms middleware.PermissionStore) http.Handler {
	t.Helper()
	h := NewHandler(nil, perms, nil)
	r := chi.NewRouter()
	r.Use(middleware.Auth("test-secret"))
	h.RegisterRoutes(r)
	return r
}

func bearerToken(t *testing.T, role string) string {
	t.Helper()
	token, err := auth.GenerateToken("test-secret", auth.Claims{
		UserID:   "u1",
		Username: "asha",
		Role:     role,
	}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestOccasionsEndpoint(t *testing.T) {
	router := newRouter(t, stubPerms{allowed: true})

	req := httptest.NewRequest(http.MethodGet, "/quotes/occasions", nil)
	req.Header.Set("Authorization", bearerToken(t, domainauth.RoleStaff))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope api.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	var occasions []string
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &occasions))
	assert.Len(t, occasions, 8)
	assert.Contains(t, occasions, "birthday")
	assert.Contains(t, occasions, "festival")
}

func TestOccasionsRequiresPermission(t *testing.T) {
	router := newRouter(t, stubPerms{allowed: false})

	req := httptest.NewRequest(http.MethodGet, "/quotes/occasions", nil)
	req.Header.Set("Authorization", bearerToken(t, domainauth.RoleStaff))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOccasionsRequiresAuthentication(t *testing.T) {
	router := newRouter(t, stubPerms{allowed: true})

	req := httptest.NewRequest(http.MethodGet, "/quotes/occasions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
