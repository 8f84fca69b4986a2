package directoryhandler

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
	"hrconsole/internal/domain/directory"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

const (
	maxDocumentBytes  = 5 * 1024 * 1024
	maxMultipartBytes = 16 * 1024 * 1024
	minPasswordLength = 6
)

type Handler struct {
	Service *directory.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *directory.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermDirectoryRead, h.Perms)
	write := middleware.RequirePermission(auth.PermDirectoryWrite, h.Perms)

	r.Route("/employees", func(r chi.Router) {
		r.With(read).Get("/", h.handleList)
		r.With(read).Get("/check-id", h.handleCheckID)
		r.With(write).Post("/", h.handleCreate)
		r.With(read).Get("/{employeeID}", h.handleGet)
		r.With(write).Put("/{employeeID}", h.handleUpdate)
		r.With(write).Delete("/{employeeID}", h.handleDelete)
		r.With(write).Post("/{employeeID}/profile-image", h.handleProfileImage)
		r.With(write).Post("/{employeeID}/documents/{slot}", h.handleUploadDocument)
		r.With(read).Get("/{employeeID}/documents/{documentID}/download", h.handleDownloadDocument)
		r.With(write).Delete("/{employeeID}/documents/{documentID}", h.handleDeleteDocument)
	})

	r.Route("/designations", func(r chi.Router) {
		r.With(read).Get("/", h.handleListDesignations)
		r.With(write).Post("/", h.handleCreateDesignation)
		r.With(write).Put("/{designationID}", h.handleUpdateDesignation)
		r.With(write).Delete("/{designationID}", h.handleDeleteDesignation)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter := directory.ListFilter{
		WorkingStatus:  r.URL.Query().Get("workingStatus"),
		EmploymentType: r.URL.Query().Get("employmentType"),
		DesignationID:  r.URL.Query().Get("designationId"),
		Search:         r.URL.Query().Get("search"),
	}
	page := shared.ParsePage(r, 20, 100)

	employees, total, err := h.Service.List(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to list employees", middleware.GetRequestID(r.Context()))
		return
	}
	shared.SetTotalCount(w, total)
	api.Success(w, employees, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCheckID(w http.ResponseWriter, r *http.Request) {
	employeeNo := directory.NormalizeEmployeeNo(r.URL.Query().Get("employeeNo"))
	if employeeNo == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "employeeNo is required", middleware.GetRequestID(r.Context()))
		return
	}
	available, err := h.Service.EmployeeNoAvailable(r.Context(), employeeNo)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_check_failed", "failed to check employee id", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"employeeNo": employeeNo, "available": available}, middleware.GetRequestID(r.Context()))
}

type employeePayload struct {
	EmployeeNo     string `json:"employeeNo"`
	Name           string `json:"name"`
	DateOfBirth    string `json:"dateOfBirth"`
	Gender         string `json:"gender"`
	BloodGroup     string `json:"bloodGroup"`
	MaritalStatus  string `json:"maritalStatus"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	EmploymentType string `json:"employmentType"`
	WorkingStatus  string `json:"workingStatus"`
	DesignationID  string `json:"designationId"`
	JoinDate       string `json:"joinDate"`
	InternDate     string `json:"internDate"`
	Password       string `json:"password"`
}

func (p employeePayload) validate(v *shared.Validator, isNew bool) (directory.Employee, string) {
	v.Required("employeeNo", p.EmployeeNo, "is required")
	v.Required("name", p.Name, "is required")
	v.Required("gender", p.Gender, "is required")
	v.Required("designationId", p.DesignationID, "is required")
	v.Enum("employmentType", p.EmploymentType, []string{directory.EmploymentOnRole, directory.EmploymentIntern}, "must be onrole or intern")
	v.Enum("workingStatus", p.WorkingStatus, []string{directory.StatusActive, directory.StatusRelieved, directory.StatusProbation}, "must be active, relieved or probation")

	emp := directory.Employee{
		EmployeeNo:     directory.NormalizeEmployeeNo(p.EmployeeNo),
		Name:           strings.TrimSpace(p.Name),
		Gender:         strings.ToLower(strings.TrimSpace(p.Gender)),
		BloodGroup:     strings.TrimSpace(p.BloodGroup),
		MaritalStatus:  strings.TrimSpace(p.MaritalStatus),
		Phone:          strings.TrimSpace(p.Phone),
		Email:          strings.TrimSpace(p.Email),
		Address:        strings.TrimSpace(p.Address),
		EmploymentType: strings.ToLower(strings.TrimSpace(p.EmploymentType)),
		WorkingStatus:  strings.ToLower(strings.TrimSpace(p.WorkingStatus)),
		DesignationID:  strings.TrimSpace(p.DesignationID),
	}

	if dob, ok := v.Date("dateOfBirth", p.DateOfBirth); ok {
		emp.DateOfBirth = &dob
	}
	if emp.EmploymentType == directory.EmploymentOnRole {
		if join, ok := v.Date("joinDate", p.JoinDate); ok {
			emp.JoinDate = &join
		}
	} else if p.JoinDate != "" {
		if join, err := shared.ParseDate(p.JoinDate); err == nil && !join.IsZero() {
			emp.JoinDate = &join
		}
	}
	if p.InternDate != "" {
		if intern, err := shared.ParseDate(p.InternDate); err == nil && !intern.IsZero() {
			emp.InternDate = &intern
		}
	}

	if isNew {
		if len(strings.TrimSpace(p.Password)) < minPasswordLength {
			v.Add("password", "must be at least 6 characters")
		}
	}
	return emp, strings.TrimSpace(p.Password)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	emp, password := payload.validate(v, true)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	id, err := h.Service.Create(r.Context(), emp, password)
	switch {
	case errors.Is(err, directory.ErrDuplicateID):
		api.Fail(w, http.StatusConflict, "employee_exists", "employee id already in use", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.employee.create", "employee", id, nil, emp)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	before, err := h.Service.Get(r.Context(), employeeID)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", middleware.GetRequestID(r.Context()))
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	// The employee number is immutable once assigned.
	payload.EmployeeNo = before.EmployeeNo

	v := shared.NewValidator()
	emp, _ := payload.validate(v, false)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.Update(r.Context(), employeeID, emp); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.employee.update", "employee", employeeID, before, emp)
	api.Success(w, map[string]string{"id": employeeID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.Service.Delete(r.Context(), employeeID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.employee.delete", "employee", employeeID, nil, nil)
	api.Success(w, map[string]string{"id": employeeID}, middleware.GetRequestID(r.Context()))
}

func readUpload(r *http.Request, field string) (string, []byte, error) {
	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		return "", nil, err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil {
		return "", nil, err
	}
	if len(data) > maxDocumentBytes {
		return "", nil, errors.New("file too large")
	}
	return header.Filename, data, nil
}

func (h *Handler) handleProfileImage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")

	fileName, data, err := readUpload(r, "image")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "image upload is required", middleware.GetRequestID(r.Context()))
		return
	}

	path, err := h.Service.SetProfileImage(r.Context(), employeeID, fileName, data)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "image_upload_failed", "failed to store profile image", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.employee.image", "employee", employeeID, nil, map[string]string{"path": path})
	api.Success(w, map[string]string{"path": path}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	slot := chi.URLParam(r, "slot")

	fileName, data, err := readUpload(r, "document")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "document upload is required", middleware.GetRequestID(r.Context()))
		return
	}

	doc, err := h.Service.AttachDocument(r.Context(), employeeID, slot, fileName, data)
	switch {
	case errors.Is(err, directory.ErrUnknownSlot):
		api.Fail(w, http.StatusBadRequest, "unknown_slot", "unknown document slot", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "document_upload_failed", "failed to store document", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.document.upload", "employee_document", doc.ID, nil, map[string]string{"slot": slot, "fileName": fileName})
	api.Created(w, doc, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	documentID := chi.URLParam(r, "documentID")

	doc, data, err := h.Service.DocumentData(r.Context(), employeeID, documentID)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "document_not_found", "document not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "document_download_failed", "failed to read document", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	if _, err := w.Write(data); err != nil {
		slog.Warn("document download write failed", "documentId", documentID, "err", err)
	}
}

func (h *Handler) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employeeID := chi.URLParam(r, "employeeID")
	documentID := chi.URLParam(r, "documentID")

	if err := h.Service.RemoveDocument(r.Context(), employeeID, documentID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "document_not_found", "document not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "document_delete_failed", "failed to delete document", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.document.delete", "employee_document", documentID, nil, nil)
	api.Success(w, map[string]string{"id": documentID}, middleware.GetRequestID(r.Context()))
}

type designationPayload struct {
	Name string `json:"name"`
}

func (h *Handler) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	designations, err := h.Service.ListDesignations(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "designation_list_failed", "failed to list designations", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, designations, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDesignation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload designationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "designation name is required", middleware.GetRequestID(r.Context()))
		return
	}

	id, err := h.Service.CreateDesignation(r.Context(), strings.TrimSpace(payload.Name))
	switch {
	case errors.Is(err, directory.ErrDuplicateName):
		api.Fail(w, http.StatusConflict, "designation_exists", "designation already exists", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "designation_create_failed", "failed to create designation", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.designation.create", "designation", id, nil, payload)
	api.Created(w, map[string]string{"id": id}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDesignation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	designationID := chi.URLParam(r, "designationID")

	var payload designationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Name) == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "designation name is required", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Service.UpdateDesignation(r.Context(), designationID, strings.TrimSpace(payload.Name))
	switch {
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "designation_not_found", "designation not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, directory.ErrDuplicateName):
		api.Fail(w, http.StatusConflict, "designation_exists", "designation already exists", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "designation_update_failed", "failed to update designation", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.designation.update", "designation", designationID, nil, payload)
	api.Success(w, map[string]string{"id": designationID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDesignation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	designationID := chi.URLParam(r, "designationID")

	err := h.Service.DeleteDesignation(r.Context(), designationID)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "designation_not_found", "designation not found", middleware.GetRequestID(r.Context()))
		return
	case errors.Is(err, directory.ErrInUse):
		api.Fail(w, http.StatusConflict, "designation_in_use", "designation is assigned to employees", middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "designation_delete_failed", "failed to delete designation", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "directory.designation.delete", "designation", designationID, nil, nil)
	api.Success(w, map[string]string{"id": designationID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actorID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
