package services

import (
	"context"
	"io"
	"time"

	"drivebox/internal/domain/models"
)

// CreateFolderRequest carries the input for folder creation.
type CreateFolderRequest struct {
	ParentID int64  `json:"parent_id"`
	Name     string `json:"name"`
}

// CreateFileRequest carries the metadata recorded when an external upload
// completes. ExternalKey is the blob store's handle for the bytes.
type CreateFileRequest struct {
	ParentID    int64  `json:"parent_id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	MimeType    string `json:"mime_type"`
	ExternalKey string `json:"external_key"`
}

// UploadRequest carries an in-process upload: the bytes are streamed to the
// blob store before the metadata row is created.
type UploadRequest struct {
	ParentID int64
	Name     string
	Size     int64
	MimeType string
	Body     io.Reader
}

// RootProvision is the result of onboarding an owner. Created is false when
// the root already existed and the call was a no-op.
type RootProvision struct {
	Root    *models.Folder `json:"root"`
	Created bool           `json:"created"`
}

// FolderContents is the browse payload for a single folder: the folder
// itself, its breadcrumb path (root first), and its direct children.
type FolderContents struct {
	Folder    *models.Folder  `json:"folder"`
	Ancestors []models.Folder `json:"ancestors"`
	Folders   []models.Folder `json:"folders"`
	Files     []models.File   `json:"files"`
}

// SubtreeDeletion reports what a recursive folder delete removed: every
// folder id in the closure and the external key of every file under it.
// The keys still need purging from the blob store when this is returned.
type SubtreeDeletion struct {
	FolderIDs    []int64  `json:"deleted_folder_ids"`
	ExternalKeys []string `json:"deleted_external_keys"`
}

// FileDownload pairs a file's metadata with a short-lived download URL.
type FileDownload struct {
	File        *models.File `json:"file"`
	DownloadURL string       `json:"download_url"`
	ExpiresIn   int64        `json:"expires_in"`
}

// FolderService is the mutation and browse API for the folder tree.
// Every method authorizes ownerID against the touched entity before acting;
// unowned entities fail with domain.ErrNotFound.
type FolderService interface {
	// CreateRoot provisions the owner's root folder plus starter
	// subfolders. Idempotent: a concurrent or repeated call returns the
	// existing root with Created=false.
	CreateRoot(ctx context.Context, ownerID string) (*RootProvision, error)

	// GetRoot returns the owner's root folder.
	GetRoot(ctx context.Context, ownerID string) (*models.Folder, error)

	// CreateFolder creates a folder under an owned parent.
	CreateFolder(ctx context.Context, ownerID string, req *CreateFolderRequest) (*models.Folder, error)

	// RenameFolder renames a folder in place.
	RenameFolder(ctx context.Context, ownerID string, folderID int64, newName string) (*models.Folder, error)

	// DeleteFolder deletes a folder and its entire subtree atomically,
	// then purges the subtree's blobs best-effort.
	DeleteFolder(ctx context.Context, ownerID string, folderID int64) (*SubtreeDeletion, error)

	// ListFolder returns a folder's browse payload.
	ListFolder(ctx context.Context, ownerID string, folderID int64) (*FolderContents, error)

	// GetAncestors returns the path from the root to the folder, root
	// first, the folder itself last.
	GetAncestors(ctx context.Context, ownerID string, folderID int64) ([]models.Folder, error)
}

// FileService is the mutation API for files.
type FileService interface {
	// CreateFile records an externally uploaded blob as a file row. The
	// TARGET FOLDER is authorized; the file does not exist yet.
	CreateFile(ctx context.Context, ownerID string, req *CreateFileRequest) (*models.File, error)

	// Upload streams the request body to the blob store and records the
	// resulting file row.
	Upload(ctx context.Context, ownerID string, req *UploadRequest) (*models.File, error)

	// GetFile returns a file's metadata with a presigned download URL.
	GetFile(ctx context.Context, ownerID string, fileID int64, expiry time.Duration) (*FileDownload, error)

	// RenameFile renames the row and the blob's display name. The two
	// writes run concurrently; either failure fails the operation.
	RenameFile(ctx context.Context, ownerID string, fileID int64, newName string) (*models.File, error)

	// DeleteFile removes the row and the blob. Both deletes are attempted
	// even if one fails.
	DeleteFile(ctx context.Context, ownerID string, fileID int64) error
}
