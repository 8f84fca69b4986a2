package requestshandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrconsole/internal/domain/audit"
	"hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/requests"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

type Handler struct {
	Service     *requests.Service
	Perms       middleware.PermissionStore
	Audit       *audit.Service
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *requests.Service, perms middleware.PermissionStore, auditSvc *audit.Service, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermRequestsRead, h.Perms)
	write := middleware.RequirePermission(auth.PermRequestsWrite, h.Perms)
	approve := middleware.RequirePermission(auth.PermRequestsApprove, h.Perms)

	r.Route("/requests", func(r chi.Router) {
		r.With(read).Get("/leave", h.handleListLeave)
		r.With(write).Post("/leave", h.handleCreateLeave)
		r.With(approve).Post("/leave/{requestID}/decision", h.handleDecideLeave)
		r.With(write).Delete("/leave/{requestID}", h.handleDeleteLeave)

		r.With(read).Get("/permission", h.handleListPermissions)
		r.With(write).Post("/permission", h.handleCreatePermission)
		r.With(approve).Post("/permission/{requestID}/decision", h.handleDecidePermission)
		r.With(write).Delete("/permission/{requestID}", h.handleDeletePermission)
	})
}

func parseRangeFilter(r *http.Request) requests.ListFilter {
	filter := requests.ListFilter{EmployeeID: r.URL.Query().Get("employeeId")}
	if from, err := shared.ParseDate(r.URL.Query().Get("from")); err == nil {
		filter.From = from
	}
	if to, err := shared.ParseDate(r.URL.Query().Get("to")); err == nil {
		filter.To = to
	}
	return filter
}

func (h *Handler) handleListLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Service.ListLeave(r.Context(), user, parseRangeFilter(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_list_failed", "failed to list leave requests", middleware.GetRequestID(r.Context()))
		return
	}

	type leaveView struct {
		requests.LeaveRequest
		Status string `json:"status"`
	}
	out := make([]leaveView, 0, len(list))
	for _, req := range list {
		out = append(out, leaveView{LeaveRequest: req, Status: req.EffectiveStatus()})
	}
	api.Success(w, out, middleware.GetRequestID(r.Context()))
}

type createLeavePayload struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Duration   string `json:"duration"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleCreateLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createLeavePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	v.Required("reason", payload.Reason, "is required")
	v.Enum("duration", payload.Duration, []string{requests.DurationFull, requests.DurationHalfAM, requests.DurationHalfPM}, "must be full, half_am or half_pm")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employeeID := strings.TrimSpace(payload.EmployeeID)
	// Staff file requests for themselves only.
	if user.Role == auth.RoleStaff || employeeID == "" {
		employeeID = user.EmployeeID
	}
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.CreateLeave(r.Context(), requests.CreateLeaveInput{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Duration:   strings.ToLower(strings.TrimSpace(payload.Duration)),
		Reason:     strings.TrimSpace(payload.Reason),
	})
	if errors.Is(err, requests.ErrValidation) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid leave request", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "leave_create_failed", "failed to create leave request", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "requests.leave.create", "leave_request", req.ID, nil, req)
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

type decisionPayload struct {
	Action string `json:"action"`
	Remark string `json:"remark"`
}

// normalizeAction accepts both imperative and past forms.
func normalizeAction(action string) string {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", requests.OutcomeApproved:
		return requests.OutcomeApproved
	case "reject", requests.OutcomeRejected:
		return requests.OutcomeRejected
	default:
		return strings.ToLower(strings.TrimSpace(action))
	}
}

// withIdempotency replays the stored response when the client retries a
// decision with the same Idempotency-Key, so a double-click never applies
// twice.
func (h *Handler) withIdempotency(w http.ResponseWriter, r *http.Request, userID string, body []byte, fn func() (any, int)) {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	requestID := middleware.GetRequestID(r.Context())
	if key == "" {
		payload, status := fn()
		writeDecision(w, payload, status, requestID)
		return
	}

	endpoint := r.Method + " " + r.URL.Path
	hash := middleware.RequestHash(body)
	if stored, found, err := h.Idempotency.Check(r.Context(), userID, endpoint, key, hash); err != nil {
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key reused with a different payload", requestID)
			return
		}
		slog.Warn("idempotency check failed", "err", err)
	} else if found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(stored)
		return
	}

	payload, status := fn()
	writeDecision(w, payload, status, requestID)

	if status < 400 {
		response, err := json.Marshal(api.Envelope{Success: true, Data: payload, RequestID: requestID})
		if err == nil {
			if err := h.Idempotency.Save(r.Context(), userID, endpoint, key, hash, response); err != nil {
				slog.Warn("idempotency save failed", "err", err)
			}
		}
	}
}

func writeDecision(w http.ResponseWriter, payload any, status int, requestID string) {
	if status >= 400 {
		code, message := decisionError(status)
		api.Fail(w, status, code, message, requestID)
		return
	}
	api.Success(w, payload, requestID)
}

func decisionError(status int) (string, string) {
	switch status {
	case http.StatusNotFound:
		return "request_not_found", "request not found"
	case http.StatusForbidden:
		return "decision_forbidden", "your role may not decide this request"
	case http.StatusConflict:
		return "invalid_state", "request is not open for this decision"
	case http.StatusBadRequest:
		return "invalid_payload", "a valid action and remark are required"
	default:
		return "decision_failed", "failed to apply decision"
	}
}

func decisionStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, requests.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, requests.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, requests.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, requests.ErrRemarkRequired), errors.Is(err, requests.ErrUnknownOutcome):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleDecideLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	requestID := chi.URLParam(r, "requestID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload decisionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	h.withIdempotency(w, r, user.UserID, body, func() (any, int) {
		req, err := h.Service.DecideLeave(r.Context(), user, requestID,
			normalizeAction(payload.Action), strings.TrimSpace(payload.Remark))
		status := decisionStatus(err)
		if status == http.StatusOK {
			h.record(r, user.UserID, "requests.leave.decide", "leave_request", requestID, nil, map[string]string{
				"action": payload.Action, "remark": payload.Remark, "status": req.EffectiveStatus(),
			})
			return req, status
		}
		return nil, status
	})
}

func (h *Handler) handleDeleteLeave(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	requestID := chi.URLParam(r, "requestID")

	err := h.Service.DeleteLeave(r.Context(), user, requestID)
	switch {
	case errors.Is(err, requests.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "request_not_found", "request not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, requests.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "delete_forbidden", "you may not delete this request", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "leave_delete_failed", "failed to delete leave request", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "requests.leave.delete", "leave_request", requestID, nil, nil)
	api.Success(w, map[string]string{"id": requestID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	list, err := h.Service.ListPermissions(r.Context(), user, parseRangeFilter(r))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_list_failed", "failed to list permission requests", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, list, middleware.GetRequestID(r.Context()))
}

type createPermissionPayload struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	FromTime   string `json:"fromTime"`
	ToTime     string `json:"toTime"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload createPermissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	date, _ := v.Date("date", payload.Date)
	v.Required("fromTime", payload.FromTime, "is required")
	v.Required("toTime", payload.ToTime, "is required")
	v.Required("reason", payload.Reason, "is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	employeeID := strings.TrimSpace(payload.EmployeeID)
	if user.Role == auth.RoleStaff || employeeID == "" {
		employeeID = user.EmployeeID
	}
	if employeeID == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeId is required", middleware.GetRequestID(r.Context()))
		return
	}

	req, err := h.Service.CreatePermission(r.Context(), requests.CreatePermissionInput{
		EmployeeID: employeeID,
		Date:       date,
		FromTime:   strings.TrimSpace(payload.FromTime),
		ToTime:     strings.TrimSpace(payload.ToTime),
		Reason:     strings.TrimSpace(payload.Reason),
	})
	if errors.Is(err, requests.ErrValidation) {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid permission request", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "permission_create_failed", "failed to create permission request", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "requests.permission.create", "permission_request", req.ID, nil, req)
	api.Created(w, req, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDecidePermission(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	requestID := chi.URLParam(r, "requestID")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	var payload decisionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	h.withIdempotency(w, r, user.UserID, body, func() (any, int) {
		req, err := h.Service.DecidePermissionRequest(r.Context(), user, requestID,
			normalizeAction(payload.Action))
		status := decisionStatus(err)
		if status == http.StatusOK {
			h.record(r, user.UserID, "requests.permission.decide", "permission_request", requestID, nil, map[string]string{
				"action": payload.Action, "status": req.Status,
			})
			return req, status
		}
		return nil, status
	})
}

func (h *Handler) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	requestID := chi.URLParam(r, "requestID")

	err := h.Service.DeletePermission(r.Context(), user, requestID)
	switch {
	case errors.Is(err, requests.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "request_not_found", "request not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, requests.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "delete_forbidden", "you may not delete this request", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "permission_delete_failed", "failed to delete permission request", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "requests.permission.delete", "permission_request", requestID, nil, nil)
	api.Success(w, map[string]string{"id": requestID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actorID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
