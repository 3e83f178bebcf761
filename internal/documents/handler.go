package documents

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/docuvault/docuvault/internal/access"
	"github.com/docuvault/docuvault/internal/platform/httpx"
	"github.com/docuvault/docuvault/internal/shared"
)

// Handler exposes document endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	access    access.Middleware
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw access.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		access:    mw,
	}
}

type createDocumentRequest struct {
	Title          string  `json:"title" validate:"required,max=300"`
	IsPublic       bool    `json:"is_public"`
	AccessGroupIDs []int64 `json:"access_group_ids" validate:"dive,gt=0"`
}

// MountRoutes registers document routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/documents/{id}", h.show)
	r.Get("/documents/{id}/download", h.download)
	r.Delete("/documents/{id}", h.delete)
	r.Group(func(r chi.Router) {
		r.Use(h.access.RequireAny(shared.CapDocumentUpload))
		r.Post("/documents", h.create)
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	userID, doc, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.service.CanView(r.Context(), userID, doc) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	userID, doc, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.service.CanDownloadPDF(r.Context(), userID, doc) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	// The storage collaborator streams the object; this core only decides.
	httpx.JSON(w, http.StatusOK, map[string]string{"storage_key": doc.StorageKey})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return
	}
	var req createDocumentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, httpx.ErrValidation)
		return
	}
	doc, err := h.service.CreateDocument(r.Context(), Document{
		OwnerID:        userID,
		Title:          req.Title,
		StorageKey:     uuid.NewString(),
		IsPublic:       req.IsPublic,
		AccessGroupIDs: req.AccessGroupIDs,
	})
	if err != nil {
		h.logger.Error("create document", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	userID, doc, ok := h.load(w, r)
	if !ok {
		return
	}
	if !h.service.CanDelete(r.Context(), userID, doc) {
		httpx.RespondError(w, httpx.ErrForbidden)
		return
	}
	if err := h.service.DeleteDocument(r.Context(), doc.ID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (int64, Document, bool) {
	userID, ok := h.currentUserID(w, r)
	if !ok {
		return 0, Document{}, false
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, Document{}, false
	}
	doc, err := h.service.GetDocument(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return 0, Document{}, false
	}
	return userID, doc, true
}

func (h *Handler) currentUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return 0, false
	}
	return id, true
}
