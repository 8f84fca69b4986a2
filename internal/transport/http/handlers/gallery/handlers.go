package galleryhandler

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
	"hrconsole/internal/domain/gallery"
	"hrconsole/internal/transport/http/api"
	"hrconsole/internal/transport/http/middleware"
	"hrconsole/internal/transport/http/shared"
)

const (
	maxImageBytes     = 5 << 20
	maxMultipartBytes = 16 << 20

	defaultPageSize = 6
	maxPageSize     = 50
)

type Handler struct {
	Service *gallery.Service
	Perms   middleware.PermissionStore
	Audit   *audit.Service
}

func NewHandler(service *gallery.Service, perms middleware.PermissionStore, auditSvc *audit.Service) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	read := middleware.RequirePermission(auth.PermGalleryRead, h.Perms)
	write := middleware.RequirePermission(auth.PermGalleryWrite, h.Perms)

	r.Route("/quotes", func(r chi.Router) {
		r.With(read).Get("/", h.handleListQuotes)
		r.With(read).Get("/occasions", h.handleOccasions)
		r.With(write).Post("/", h.handleCreateQuote)
		r.With(write).Put("/{quoteID}", h.handleUpdateQuote)
		r.With(write).Delete("/{quoteID}", h.handleDeleteQuote)
	})
	r.Route("/gallery", func(r chi.Router) {
		r.With(read).Get("/images", h.handleListImages)
		r.With(write).Post("/images", h.handleAddImage)
		r.With(write).Delete("/images/{imageID}", h.handleDeleteImage)
		r.With(read).Get("/file/*", h.handleServeFile)
	})
}

// handleServeFile streams a stored gallery asset, decrypting it on the way
// out. Image URLs in responses point here.
func (h *Handler) handleServeFile(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	data, err := h.Service.ReadFile(path)
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "image not found", middleware.GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Warn("gallery file write failed", "err", err)
	}
}

func (h *Handler) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePage(r, defaultPageSize, maxPageSize)

	quotes, total, err := h.Service.ListQuotes(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "quotes_list_failed", "failed to list quotes", middleware.GetRequestID(r.Context()))
		return
	}
	shared.SetTotalCount(w, total)
	api.Success(w, quotes, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleOccasions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, gallery.Occasions(), middleware.GetRequestID(r.Context()))
}

// quoteInput reads a quote form: multipart when an image file rides along,
// plain JSON otherwise.
func quoteInput(r *http.Request, v *shared.Validator) (gallery.QuoteInput, bool) {
	var in gallery.QuoteInput

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
			v.Add("image", "invalid multipart payload")
			return in, false
		}
		in.Quote = r.FormValue("quote")
		in.Occasion = r.FormValue("occasion")
		in.LibraryImageID = r.FormValue("libraryImageId")
		if date, ok := v.Date("date", r.FormValue("date")); ok {
			in.Date = date
		}
		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			data, readErr := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
			if readErr != nil || len(data) > maxImageBytes {
				v.Add("image", "image must be at most 5MB")
				return in, false
			}
			in.ImageData = data
			in.ImageName = header.Filename
		}
	} else {
		var payload struct {
			Date           string `json:"date"`
			Quote          string `json:"quote"`
			Occasion       string `json:"occasion"`
			LibraryImageID string `json:"libraryImageId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			v.Add("payload", "invalid request payload")
			return in, false
		}
		in.Quote = payload.Quote
		in.Occasion = payload.Occasion
		in.LibraryImageID = payload.LibraryImageID
		if date, ok := v.Date("date", payload.Date); ok {
			in.Date = date
		}
	}

	v.Required("quote", in.Quote, "is required")
	return in, !v.HasIssues()
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func (h *Handler) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	in, ok := quoteInput(r, v)
	if !ok {
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}

	quote, err := h.Service.CreateQuote(r.Context(), in)
	if h.failQuote(w, r, err) {
		return
	}

	h.record(r, user.UserID, "quote.create", "quote", quote.ID, nil, quote)
	api.Created(w, quote, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateQuote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	quoteID := chi.URLParam(r, "quoteID")

	v := shared.NewValidator()
	in, ok := quoteInput(r, v)
	if !ok {
		v.Reject(w, middleware.GetRequestID(r.Context()))
		return
	}

	before, err := h.Service.GetQuote(r.Context(), quoteID)
	if errors.Is(err, gallery.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "quote_update_failed", "failed to load quote", middleware.GetRequestID(r.Context()))
		return
	}

	quote, err := h.Service.UpdateQuote(r.Context(), quoteID, in)
	if h.failQuote(w, r, err) {
		return
	}

	h.record(r, user.UserID, "quote.update", "quote", quoteID, before, quote)
	api.Success(w, quote, middleware.GetRequestID(r.Context()))
}

// failQuote writes the error envelope for quote mutations; returns false
// when err is nil.
func (h *Handler) failQuote(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, gallery.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "quote_not_found", "quote or library image not found", middleware.GetRequestID(r.Context()))
	case errors.Is(err, gallery.ErrUnknownOccasion):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "unknown occasion", middleware.GetRequestID(r.Context()))
	case errors.Is(err, gallery.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "quote text and date are required", middleware.GetRequestID(r.Context()))
	default:
		api.Fail(w, http.StatusInternalServerError, "quote_save_failed", "failed to save quote", middleware.GetRequestID(r.Context()))
	}
	return true
}

func (h *Handler) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	quoteID := chi.URLParam(r, "quoteID")

	if err := h.Service.DeleteQuote(r.Context(), quoteID); err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "quote_not_found", "quote not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "quote_delete_failed", "failed to delete quote", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "quote.delete", "quote", quoteID, nil, nil)
	api.Success(w, map[string]string{"id": quoteID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleListImages(w http.ResponseWriter, r *http.Request) {
	var (
		images []gallery.LibraryImage
		err    error
	)
	if occasion := r.URL.Query().Get("occasion"); occasion != "" {
		images, err = h.Service.ImagesForOccasion(r.Context(), occasion)
	} else {
		kind := r.URL.Query().Get("kind")
		if kind == "" {
			kind = gallery.KindOccasion
		}
		images, err = h.Service.ListImages(r.Context(), kind)
	}
	switch {
	case errors.Is(err, gallery.ErrUnknownOccasion), errors.Is(err, gallery.ErrUnknownKind):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "images_list_failed", "failed to list images", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, images, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleAddImage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := r.ParseMultipartForm(maxMultipartBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "multipart payload is required", middleware.GetRequestID(r.Context()))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "image file is required", middleware.GetRequestID(r.Context()))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil || len(data) > maxImageBytes {
		api.Fail(w, http.StatusBadRequest, "invalid_upload", "image must be at most 5MB", middleware.GetRequestID(r.Context()))
		return
	}

	img, err := h.Service.AddImage(r.Context(), r.FormValue("kind"), r.FormValue("name"), header.Filename, data)
	switch {
	case errors.Is(err, gallery.ErrUnknownKind), errors.Is(err, gallery.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), middleware.GetRequestID(r.Context()))
		return
	case err != nil:
		api.Fail(w, http.StatusInternalServerError, "image_add_failed", "failed to add image", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "gallery.image.add", "gallery_image", img.ID, nil, img)
	api.Created(w, img, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	imageID := chi.URLParam(r, "imageID")

	if err := h.Service.DeleteImage(r.Context(), imageID); err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "image_not_found", "image not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "image_delete_failed", "failed to delete image", middleware.GetRequestID(r.Context()))
		return
	}

	h.record(r, user.UserID, "gallery.image.delete", "gallery_image", imageID, nil, nil)
	api.Success(w, map[string]string{"id": imageID}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, actorID, action, entityType, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.Record(r.Context(), actorID, action, entityType, entityID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, after); err != nil {
		slog.Warn("audit "+action+" failed", "err", err)
	}
}
