package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"drivebox/internal/domain/services"
	"drivebox/internal/httputil"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService   services.FileService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, maxUploadSize int64, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService:   fileService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// CreateFile records an externally uploaded blob as a file
// POST /api/files
func (h *FileHandler) CreateFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.CreateFileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.CreateFile(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// Upload streams a multipart file into the blob store and records it
// POST /api/files/upload
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(32 << 10); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	parentID, err := strconv.ParseInt(r.FormValue("parent_id"), 10, 64)
	if err != nil || parentID <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, "parent_id must be a positive integer")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer part.Close()

	req := services.UploadRequest{
		ParentID: parentID,
		Name:     header.Filename,
		Size:     header.Size,
		MimeType: header.Header.Get("Content-Type"),
		Body:     part,
	}

	file, err := h.fileService.Upload(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile returns file metadata with a presigned download URL
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Optional expires override, in seconds.
	var expiry time.Duration
	if raw := r.URL.Query().Get("expires"); raw != "" {
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || secs <= 0 {
			httputil.RespondError(w, http.StatusBadRequest, "expires must be a positive number of seconds")
			return
		}
		expiry = time.Duration(secs) * time.Second
	}

	download, err := h.fileService.GetFile(r.Context(), userID, id, expiry)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, download)
}

// RenameFile renames a file in the database and blob store
// PATCH /api/files/{id}
func (h *FileHandler) RenameFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	file, err := h.fileService.RenameFile(r.Context(), userID, id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// DeleteFile removes a file from the database and blob store
// DELETE /api/files/{id}
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	id, err := httputil.PathID(r, "id")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.fileService.DeleteFile(r.Context(), userID, id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
