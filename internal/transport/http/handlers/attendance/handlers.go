package attendancehandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/dates"
	"hrconsole/internal/domain/attendance"
	"hrconsole/internal/domain/audit"
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/reports"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Service  *attendance.Service
	Perms    middleware.PermissionStore
	Audit    *audit.Service
	Jobs     *jobs.Service
	LogoPath string
}

func NewHandler(service *attendance.Service, perms middleware.PermissionStore, auditSvc *audit.Service, jobsSvc *jobs.Service, logoPath string) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Jobs: jobsSvc, LogoPath: logoPath}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermAttendanceRead, h.Perms)
	write := middleware.RequirePermission(auth.PermAttendanceWrite, h.Perms)

	r.Route("/maid", func(r chi.Router) {
		r.With(read).Get("/week", h.handleWeek)
		r.With(write).Post("/attendance", h.handleSaveDay)
		r.With(read).Get("/tasks", h.handleTasks)
		r.With(read).Get("/checklist", h.handleChecklist)
		r.With(write).Post("/tasks/check", h.handleToggleCheck)
		r.With(read).Get("/export", h.ExportPDF)
	})
}

func (h *Handler) handleWeek(w http.ResponseWriter, r *http.Request) {
	anchor := time.Now().UTC()
	if raw := r.URL.Query().Get("anchor"); raw != "" {
		parsed, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "anchor must be a valid date", middleware.GetRequestID(r.Context()))
			return
		}
		anchor = parsed
	}

	week, err := h.Service.Week(r.Context(), anchor)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "attendance_week_failed", "failed to load week", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"weekStart": dates.WeekStart(anchor),
		"days":      week,
	}, middleware.GetRequestID(r.Context()))
}

type dayPayload struct {
	Date          string `json:"date"`
	MorningIn     string `json:"morningIn"`
	MorningOut    string `json:"morningOut"`
	EveningIn     string `json:"eveningIn"`
	EveningOut    string `json:"eveningOut"`
	LeaveType     string `json:"leaveType"`
	LeaveDuration string `json:"leaveDuration"`
	WorkDone      string `json:"workDone"`
}

func (h *Handler) handleSaveDay(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload dayPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	if payload.LeaveType != "" {
		v.Enum("leaveType", payload.LeaveType, []string{attendance.LeaveMaid, attendance.LeaveOffice}, "must be maid or office")
		v.Enum("leaveDuration", payload.LeaveDuration, []string{attendance.LeaveFull, attendance.LeaveMorning, attendance.LeaveEvening}, "must be full, morning or evening")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	saved, err := h.Service.SaveDay(r.Context(), attendance.Day{
		Date:          date,
		MorningIn:     payload.MorningIn,
		MorningOut:    payload.MorningOut,
		EveningIn:     payload.EveningIn,
		EveningOut:    payload.EveningOut,
		LeaveType:     payload.LeaveType,
		LeaveDuration: payload.LeaveDuration,
		WorkDone:      payload.WorkDone,
	})
	switch {
	case errors.Is(err, attendance.ErrInvalidClock), errors.Is(err, attendance.ErrUnknownLeave):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "attendance_save_failed", "failed to save attendance", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "attendance.day.save", "attendance_day", saved.ID, nil, saved)
	api.Success(w, saved, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Service.Tasks(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "tasks_list_failed", "failed to list tasks", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, tasks, middleware.GetRequestID(r.Context()))
}

func parseYearMonth(r *http.Request) (int, time.Month, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func (h *Handler) handleChecklist(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "year and month query params are required", middleware.GetRequestID(r.Context()))
		return
	}

	checklist, err := h.Service.Checklist(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "checklist_failed", "failed to load checklist", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, checklist, middleware.GetRequestID(r.Context()))
}

type checkPayload struct {
	WeekStart     string  `json:"weekStart"`
	TaskCode      string  `json:"taskCode"`
	CheckIndex    int     `json:"checkIndex"`
	CompletedDate *string `json:"completedDate"`
}

func (h *Handler) handleToggleCheck(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload checkPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	weekStart, _ := v.Date("weekStart", payload.WeekStart)
	v.Required("taskCode", payload.TaskCode, "is required")
	var completedOn *time.Time
	if payload.CompletedDate != nil {
		if parsed, ok := v.Date("completedDate", *payload.CompletedDate); ok {
			completedOn = &parsed
		}
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	err := h.Service.ToggleCheck(r.Context(), weekStart, payload.TaskCode, payload.CheckIndex, completedOn)
	switch {
	case errors.Is(err, attendance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "task_not_found", "unknown task code", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, attendance.ErrSlotOutOfRange):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "check index outside the task's slot count", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "check_toggle_failed", "failed to update check", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "attendance.check.toggle", "week_task_check", payload.TaskCode, nil, payload)
	api.Success(w, map[string]any{
		"weekStart":  dates.WeekStart(weekStart),
		"taskCode":   payload.TaskCode,
		"checkIndex": payload.CheckIndex,
		"checked":    completedOn != nil,
	}, middleware.GetRequestID(r.Context()))
}

// ExportPDF renders a month's attendance as a PDF download. It also backs
// the reports route, so it is exported.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "year and month query params are required", middleware.GetRequestID(r.Context()))
		return
	}

	days, err := h.Service.MonthDays(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to load attendance", middleware.GetRequestID(r.Context()))
		return
	}

	var pdf []byte
	_, err = h.Jobs.RunNow(r.Context(), jobs.JobAttendanceExport, func(ctx context.Context) (any, error) {
		rendered, renderErr := reports.AttendanceMonthPDF(year, month, days, h.LogoPath)
		if renderErr != nil {
			return nil, renderErr
		}
		pdf = rendered
		return map[string]any{"year": year, "month": int(month), "days": len(days), "bytes": len(rendered)}, nil
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render report", middleware.GetRequestID(r.Context()))
		return
	}

	name := "attendance-" + month.String() + "-" + strconv.Itoa(year) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("attendance export write failed", "err", err)
	}
}

func (h *Handler) record(r *http.Request, actorID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
