package drive

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"drivebox/internal/blob"
	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
	svcauth "drivebox/internal/service/auth"
)

type fileService struct {
	fileRepo   repositories.FileRepository
	authorizer *svcauth.OwnerAuthorizer
	blobStore  blob.Store
	logger     *slog.Logger
}

// NewFileService creates a new file service
func NewFileService(
	fileRepo repositories.FileRepository,
	authorizer *svcauth.OwnerAuthorizer,
	blobStore blob.Store,
	logger *slog.Logger,
) services.FileService {
	return &fileService{
		fileRepo:   fileRepo,
		authorizer: authorizer,
		blobStore:  blobStore,
		logger:     logger,
	}
}

// CreateFile records a blob that already lives in the external store. The
// file row does not exist yet, so authorization targets the destination
// folder instead.
func (s *fileService) CreateFile(ctx context.Context, ownerID string, req *services.CreateFileRequest) (*models.File, error) {
	if err := validateFileName(req.Name); err != nil {
		return nil, err
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.ParentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Size, validation.Min(int64(0))),
		validation.Field(&req.ExternalKey, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.authorizer.AuthorizeFolder(ctx, ownerID, req.ParentID); err != nil {
		return nil, err
	}

	file := &models.File{
		OwnerID:     ownerID,
		ParentID:    req.ParentID,
		Name:        strings.TrimSpace(req.Name),
		Size:        req.Size,
		URL:         req.URL,
		MimeType:    req.MimeType,
		ExternalKey: req.ExternalKey,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

// Upload streams the request body to the blob store under a fresh key, then
// records the metadata row. If the row insert fails the just-written blob is
// deleted again so the store does not accumulate unreferenced objects.
func (s *fileService) Upload(ctx context.Context, ownerID string, req *services.UploadRequest) (*models.File, error) {
	if err := validateFileName(req.Name); err != nil {
		return nil, err
	}
	if req.ParentID <= 0 {
		return nil, fmt.Errorf("%w: parent_id must be a positive id", domain.ErrValidation)
	}
	if req.Body == nil {
		return nil, fmt.Errorf("%w: upload body is required", domain.ErrValidation)
	}

	if _, err := s.authorizer.AuthorizeFolder(ctx, ownerID, req.ParentID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	key := uuid.New().String() + filepath.Ext(name)

	url, err := s.blobStore.Upload(ctx, key, req.Body, req.Size, req.MimeType)
	if err != nil {
		return nil, err
	}

	file := &models.File{
		OwnerID:     ownerID,
		ParentID:    req.ParentID,
		Name:        name,
		Size:        req.Size,
		URL:         url,
		MimeType:    req.MimeType,
		ExternalKey: key,
	}
	if err := s.fileRepo.Create(ctx, file); err != nil {
		// The blob was written but the row was not; clean the blob up so
		// the upload is all-or-nothing from the caller's view.
		cleanupCtx := context.WithoutCancel(ctx)
		if derr := s.blobStore.Delete(cleanupCtx, key); derr != nil {
			s.logger.Error("failed to clean up blob after metadata insert failure",
				"key", key, "error", derr)
		}
		return nil, err
	}
	return file, nil
}

func (s *fileService) GetFile(ctx context.Context, ownerID string, fileID int64, expiry time.Duration) (*services.FileDownload, error) {
	file, err := s.authorizer.AuthorizeFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}
	if expiry <= 0 {
		expiry = config.DefaultDownloadURLExpiry * time.Second
	}

	url, err := s.blobStore.PresignGet(ctx, file.ExternalKey, expiry)
	if err != nil {
		return nil, err
	}
	return &services.FileDownload{
		File:        file,
		DownloadURL: url,
		ExpiresIn:   int64(expiry.Seconds()),
	}, nil
}

// RenameFile renames the row and the blob's download filename. The two
// writes go to independent stores with no shared transaction; they run
// concurrently and both are always attempted. A row failure outranks a blob
// failure in the returned error since the row is the source of truth.
func (s *fileService) RenameFile(ctx context.Context, ownerID string, fileID int64, newName string) (*models.File, error) {
	if err := validateFileName(newName); err != nil {
		return nil, err
	}

	file, err := s.authorizer.AuthorizeFile(ctx, ownerID, fileID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(newName)
	var dbErr, blobErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		dbErr = s.fileRepo.Rename(ctx, fileID, ownerID, name)
	}()
	go func() {
		defer wg.Done()
		blobErr = s.blobStore.Rename(ctx, file.ExternalKey, name)
	}()
	wg.Wait()

	if dbErr != nil {
		return nil, dbErr
	}
	if blobErr != nil {
		s.logger.Error("blob rename failed after row rename",
			"file_id", fileID, "key", file.ExternalKey, "error", blobErr)
		return nil, blobErr
	}

	file.Name = name
	return file, nil
}

// DeleteFile removes the row and the blob concurrently. Both deletes are
// always attempted; the row error wins when both fail.
func (s *fileService) DeleteFile(ctx context.Context, ownerID string, fileID int64) error {
	file, err := s.authorizer.AuthorizeFile(ctx, ownerID, fileID)
	if err != nil {
		return err
	}

	var dbErr, blobErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, dbErr = s.fileRepo.DeleteByIDs(ctx, []int64{fileID}, ownerID)
	}()
	go func() {
		defer wg.Done()
		blobErr = s.blobStore.Delete(ctx, file.ExternalKey)
	}()
	wg.Wait()

	if dbErr != nil {
		return dbErr
	}
	if blobErr != nil {
		s.logger.Error("blob delete failed after row delete",
			"file_id", fileID, "key", file.ExternalKey, "error", blobErr)
		return blobErr
	}
	return nil
}

func validateFileName(name string) error {
	err := validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("file name is required"),
		validation.Length(1, config.MaxFileNameLength),
		validation.By(noPathSeparators),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
