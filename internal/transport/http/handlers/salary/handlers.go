package salaryhandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/audit"
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/salary"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Service *salary.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
	Jobs    *jobs.Service
}

func NewHandler(service *salary.Service, perms middleware.PermissionStore, auditSvc *audit.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Jobs: jobsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermSalaryRead, h.Perms)
	write := middleware.RequirePermission(auth.PermSalaryWrite, h.Perms)

	r.Route("/salary", func(r chi.Router) {
		r.With(read).Get("/", h.handleListMonth)
		r.With(write).Post("/", h.handleSave)
		r.With(write).Patch("/{recordID}/leave-days", h.handlePatchLeaveDays)
		r.With(write).Delete("/{recordID}", h.handleDelete)
		r.With(read).Get("/{recordID}/payslip", h.handlePayslip)
	})
}

func parseMonth(r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func (h *Handler) handleListMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseMonth(r)
	if !ok {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "year and month query params are required", middleware.GetRequestID(r.Context()))
		return
	}

	records, err := h.Service.ListMonth(r.Context(), year, month)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_list_failed", "failed to list salary records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, records, middleware.GetRequestID(r.Context()))
}

type savePayload struct {
	EmployeeID     string  `json:"employeeId"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	BasicSalary    float64 `json:"basicSalary"`
	TotalLeaveDays float64 `json:"totalLeaveDays"`
	PaidLeaveDays  float64 `json:"paidLeaveDays"`
	Incentive      float64 `json:"incentive"`
	Bonus          float64 `json:"bonus"`
	Medical        float64 `json:"medical"`
	OtherAllowance float64 `json:"otherAllowance"`
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload savePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "is required")
	if payload.Month < 1 || payload.Month > 12 {
		v.Add("month", "must be between 1 and 12")
	}
	if payload.Year < 2000 || payload.Year > 2100 {
		v.Add("year", "must be a plausible year")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	record, breakdown, err := h.Service.Save(r.Context(), salary.SaveInput{
		EmployeeID:     payload.EmployeeID,
		Year:           payload.Year,
		Month:          payload.Month,
		BasicSalary:    payload.BasicSalary,
		TotalLeaveDays: payload.TotalLeaveDays,
		PaidLeaveDays:  payload.PaidLeaveDays,
		Incentive:      payload.Incentive,
		Bonus:          payload.Bonus,
		Medical:        payload.Medical,
		OtherAllowance: payload.OtherAllowance,
	})
	if errors.Is(err, salary.ErrNegativeInput) || errors.Is(err, salary.ErrInvalidMonth) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "salary figures must be non-negative", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "salary_save_failed", "failed to save salary record", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "salary.save", "salary_record", record.ID, nil, record)
	api.Success(w, map[string]any{"record": record, "breakdown": breakdown}, middleware.GetRequestID(r.Context()))
}

type leaveDaysPayload struct {
	TotalLeaveDays float64 `json:"totalLeaveDays"`
	PaidLeaveDays  float64 `json:"paidLeaveDays"`
}

func (h *Handler) handlePatchLeaveDays(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	recordID := chi.URLParam(r, "recordID")

	var payload leaveDaysPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	record, err := h.Service.UpdateLeaveDays(r.Context(), recordID, payload.TotalLeaveDays, payload.PaidLeaveDays)
	switch {
	case errors.Is(err, salary.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "salary_not_found", "salary record not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, salary.ErrNegativeInput):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "leave days must be non-negative", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "salary_patch_failed", "failed to update leave days", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "salary.leave_days.update", "salary_record", recordID, nil, payload)
	api.Success(w, record, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	recordID := chi.URLParam(r, "recordID")

	if err := h.Service.Delete(r.Context(), recordID); err != nil {
		if errors.Is(err, salary.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "salary_not_found", "salary record not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "salary_delete_failed", "failed to delete salary record", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "salary.delete", "salary_record", recordID, nil, nil)
	api.Success(w, map[string]string{"id": recordID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	recordID := chi.URLParam(r, "recordID")

	record, err := h.Service.GetByID(r.Context(), recordID)
	if errors.Is(err, salary.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "salary_not_found", "salary record not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to load salary record", middleware.GetRequestID(r.Context()))
		return
	}

	var pdf []byte
	_, err = h.Jobs.RunNow(r.Context(), jobs.JobPayslipRender, func(ctx context.Context) (any, error) {
		rendered, renderErr := salary.Payslip(record)
		if renderErr != nil {
			return nil, renderErr
		}
		pdf = rendered
		return map[string]any{"recordId": record.ID, "bytes": len(rendered)}, nil
	})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "payslip_failed", "failed to render payslip", middleware.GetRequestID(r.Context()))
		return
	}

	name := "payslip-" + time.Month(record.Month).String() + "-" + strconv.Itoa(record.Year) + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip write failed", "recordId", recordID, "err", err)
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
