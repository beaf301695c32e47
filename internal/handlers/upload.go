package handlers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/certfolio/apiserver/internal/storage"
	"github.com/go-chi/chi/v5"
)

const (
	maxUploadMemory = 32 << 20
	maxUploadBytes  = 64 << 20
	formFieldFile   = "file"
)

// UploadHandler accepts multipart file uploads and serves stored files back.
// No content-type validation or scanning is applied to uploads.
type UploadHandler struct {
	files *storage.FileStore
}

// NewUploadHandler constructs a handler over the provided file store.
func NewUploadHandler(files *storage.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// UploadRouter registers the authenticated upload endpoint.
func UploadRouter(r chi.Router, files *storage.FileStore, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUploadHandler(files)
	r.With(authMiddleware).Post("/", handler.Upload)
}

// FileRouter registers the public read-back endpoint for stored files.
func FileRouter(r chi.Router, files *storage.FileStore) {
	handler := NewUploadHandler(files)
	r.Get("/{fileKey}", handler.Serve)
}

// Upload stores the request's file and returns its reference. The response
// is written only after the storage backend has committed the bytes.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if _, err := authUserFromContext(r.Context()); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile(formFieldFile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	data, err := readFileLimited(file, maxUploadBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.files.Save(r.Context(), header.Filename, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	writeJSON(w, http.StatusCreated, UploadResponse{URL: url})
}

// Serve streams a previously stored file back to the client.
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimSpace(chi.URLParam(r, "fileKey"))
	if key == "" {
		writeError(w, http.StatusBadRequest, "invalid file key")
		return
	}

	reader, err := h.files.Open(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	defer reader.Close()

	if contentType := mime.TypeByExtension(filepath.Ext(key)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	_, _ = io.Copy(w, reader)
}

// UploadResponse carries the stored file's public reference.
type UploadResponse struct {
	URL string `json:"url"`
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
