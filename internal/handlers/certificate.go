package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/certfolio/apiserver/internal/services"
	"github.com/certfolio/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// CertificateHandler provides HTTP handlers for certificates.
type CertificateHandler struct {
	certService *services.CertificateService
}

// NewCertificateHandler constructs a handler with the provided service.
func NewCertificateHandler(certService *services.CertificateService) *CertificateHandler {
	return &CertificateHandler{certService: certService}
}

// CertificateRouter registers certificate routes on the given router. The
// public per-user listing bypasses the auth gate by route design.
func CertificateRouter(r chi.Router, certService *services.CertificateService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewCertificateHandler(certService)

	r.Get("/user/{userID}", handler.ListPublic)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", handler.ListOwn)
		r.Post("/", handler.Create)
		r.Delete("/{certID}", handler.Delete)
	})
}

// ListOwn returns the authenticated owner's certificates, newest first.
func (h *CertificateHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	user, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	certs, err := h.certService.ListByOwner(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list certificates")
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

// ListPublic returns any user's certificates without authentication. It
// exposes the same fields as the owner view.
func (h *CertificateHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "userID"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	certs, err := h.certService.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list certificates")
		return
	}
	writeJSON(w, http.StatusOK, certs)
}

func (h *CertificateHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateCertificateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	created, err := h.certService.Create(r.Context(), user.ID, services.CreateCertificateInput{
		Name:         req.Name,
		Issuer:       req.Issuer,
		DateIssued:   req.DateIssued,
		FileUrl:      req.FileUrl,
		ThumbnailUrl: req.ThumbnailUrl,
		Thumbnail:    req.Thumbnail,
		Tags:         req.Tags,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create certificate")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// Delete removes an owned certificate. An id belonging to someone else
// reports not found, never forbidden.
func (h *CertificateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := authUserFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	certID := strings.TrimSpace(chi.URLParam(r, "certID"))
	if certID == "" {
		writeError(w, http.StatusBadRequest, "invalid certificate id")
		return
	}

	if err := h.certService.Delete(r.Context(), certID, user.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "certificate not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete certificate")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "certificate deleted"})
}

// CreateCertificateRequest is the JSON payload for creating a certificate.
type CreateCertificateRequest struct {
	Name         string   `json:"name"`
	Issuer       string   `json:"issuer"`
	DateIssued   string   `json:"dateIssued"`
	FileUrl      string   `json:"fileUrl"`
	ThumbnailUrl string   `json:"thumbnailUrl"`
	Thumbnail    string   `json:"thumbnail"`
	Tags         []string `json:"tags"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}
