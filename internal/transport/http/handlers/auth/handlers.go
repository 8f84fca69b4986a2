package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/auth"
	"hrconsole/internal/domain/audit"
	domainauth "hrconsole/internal/domain/auth"
	"hrconsole/internal/platform/config"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Store *domainauth.Store
	Cfg   config.Config
	Audit *audit.Service
}

func NewHandler(store *domainauth.Store, cfg config.Config, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Cfg: cfg, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Get("/me", h.handleMe)
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	username := strings.ToLower(strings.TrimSpace(payload.Username))
	if username == "" || payload.Password == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "username and password are required", middleware.GetRequestID(r.Context()))
		return
	}

	user, err := h.Store.FindUserByUsername(r.Context(), username)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Cfg.JWTSecret, auth.Claims{
		UserID:      user.ID,
		Username:    user.Username,
		Name:        user.Name,
		Role:        user.Role,
		Designation: user.Designation,
		EmployeeID:  user.EmployeeID,
	}, h.Cfg.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last login failed", "userId", user.ID, "err", err)
	}

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":          user.ID,
			"username":    user.Username,
			"name":        user.Name,
			"role":        user.Role,
			"designation": user.Designation,
			"employeeId":  user.EmployeeID,
		},
	}, middleware.GetRequestID(r.Context()))
}

// handleLogout records the sign-out for the audit trail. Tokens are
// stateless, so there is nothing to revoke server-side; clients drop the
// token.
func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if h.Audit != nil {
		err := h.Audit.Record(r.Context(), user.UserID, "auth.logout", "user", user.UserID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, nil)
		if err != nil {
			slog.Warn("audit auth.logout failed", "err", err)
		}
	}
	api.Success(w, map[string]bool{"loggedOut": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, user, middleware.GetRequestID(r.Context()))
}
