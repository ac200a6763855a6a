package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/linguachat/server/internal/services"
)

// UploadHandler accepts file uploads and returns their retrievable URL.
type UploadHandler struct {
	uploads *services.UploadService
	log     *zap.Logger
}

// NewUploadHandler creates a new UploadHandler instance.
func NewUploadHandler(uploads *services.UploadService, log *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, log: log}
}

// Upload handles POST /api/upload (multipart form, field "file").
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.uploads.MaxSize())
	if err := r.ParseMultipartForm(h.uploads.MaxSize()); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	url, err := h.uploads.Save(file, header)
	if err != nil {
		h.log.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store file")
		return
	}

	h.log.Info("file uploaded", zap.String("filename", header.Filename), zap.String("url", url))
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
