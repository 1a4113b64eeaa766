package handler

import (
	"log/slog"
	"net/http"

	"drivebox/internal/domain/services"
	"drivebox/internal/httputil"
)

// DriveHandler handles drive-level HTTP requests
type DriveHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewDriveHandler creates a new drive handler
func NewDriveHandler(folderService services.FolderService, logger *slog.Logger) *DriveHandler {
	return &DriveHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// HealthCheck returns server health status
// GET /health
func (h *DriveHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDrive returns the caller's root folder
// GET /api/drive
func (h *DriveHandler) GetDrive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	root, err := h.folderService.GetRoot(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, root)
}

// ProvisionDrive creates the caller's root folder if it does not exist
// POST /api/drive
// Returns 201 when the root was created, 200 when it already existed
func (h *DriveHandler) ProvisionDrive(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	provision, err := h.folderService.CreateRoot(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if provision.Created {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, provision)
}
