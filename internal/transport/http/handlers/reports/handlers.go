package reportshandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/reports"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
)

type Handler struct {
	Service *reports.Service
	Perms   middleware.PermissionStore
	Metrics *metrics.Collector

	// AttendancePDF renders the month attendance report; wired in by the
	// server so the render path lives with the attendance handler.
	AttendancePDF http.HandlerFunc
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore, collector *metrics.Collector, attendancePDF http.HandlerFunc) *Handler {
	return &Handler{Service: service, Perms: perms, Metrics: collector, AttendancePDF: attendancePDF}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermReportsRead, h.Perms)

	r.Route("/reports", func(r chi.Router) {
		r.With(read).Get("/dashboard", h.handleDashboard)
		r.With(read).Get("/metrics", h.handleMetrics)
		if h.AttendancePDF != nil {
			r.With(read).Get("/attendance/pdf", h.AttendancePDF)
		}
	})
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Service.Dashboard(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to load dashboard", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, dashboard, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
}
