package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"drivebox/internal/blob"
	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
	svcauth "drivebox/internal/service/auth"
)

// starterFolders are created under a freshly provisioned root so a new
// account never starts with an empty drive.
var starterFolders = []string{"Pictures", "Songs", "Documents"}

const rootFolderName = "root"

type folderService struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	authorizer *svcauth.OwnerAuthorizer
	ancestry   *AncestryResolver
	deleter    *SubtreeDeleter
	blobStore  blob.Store
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
	authorizer *svcauth.OwnerAuthorizer,
	ancestry *AncestryResolver,
	deleter *SubtreeDeleter,
	blobStore blob.Store,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		authorizer: authorizer,
		ancestry:   ancestry,
		deleter:    deleter,
		blobStore:  blobStore,
		logger:     logger,
	}
}

// CreateRoot returns the owner's root folder, provisioning it (plus the
// starter subfolders) on first call. Safe to call concurrently: the partial
// unique index on (owner_id) for parentless rows makes the insert race lose
// with a conflict, in which case the winner's row is fetched instead.
func (s *folderService) CreateRoot(ctx context.Context, ownerID string) (*services.RootProvision, error) {
	root, err := s.folderRepo.GetRoot(ctx, ownerID)
	if err == nil {
		return &services.RootProvision{Root: root, Created: false}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	root = &models.Folder{
		OwnerID:  ownerID,
		Name:     rootFolderName,
		ParentID: nil,
	}
	if err := s.folderRepo.Create(ctx, root); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost the provisioning race; another request created the root.
			existing, gerr := s.folderRepo.GetRoot(ctx, ownerID)
			if gerr != nil {
				return nil, gerr
			}
			return &services.RootProvision{Root: existing, Created: false}, nil
		}
		return nil, err
	}

	for _, name := range starterFolders {
		child := &models.Folder{
			OwnerID:  ownerID,
			Name:     name,
			ParentID: &root.ID,
		}
		if err := s.folderRepo.Create(ctx, child); err != nil {
			return nil, fmt.Errorf("create starter folder %q: %w", name, err)
		}
	}

	s.logger.Info("root provisioned", "owner_id", ownerID, "root_id", root.ID)
	return &services.RootProvision{Root: root, Created: true}, nil
}

func (s *folderService) GetRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	return s.folderRepo.GetRoot(ctx, ownerID)
}

func (s *folderService) CreateFolder(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := validateFolderName(req.Name); err != nil {
		return nil, err
	}
	if req.ParentID <= 0 {
		return nil, fmt.Errorf("%w: parent_id must be a positive id", domain.ErrValidation)
	}

	if _, err := s.authorizer.AuthorizeFolder(ctx, ownerID, req.ParentID); err != nil {
		return nil, err
	}

	folder := &models.Folder{
		OwnerID:  ownerID,
		Name:     strings.TrimSpace(req.Name),
		ParentID: &req.ParentID,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *folderService) RenameFolder(ctx context.Context, ownerID string, folderID int64, name string) (*models.Folder, error) {
	if err := validateFolderName(name); err != nil {
		return nil, err
	}

	folder, err := s.authorizer.AuthorizeFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	if folder.IsRoot() {
		return nil, fmt.Errorf("%w: the root folder cannot be renamed", domain.ErrValidation)
	}

	if err := s.folderRepo.Rename(ctx, folderID, ownerID, strings.TrimSpace(name)); err != nil {
		return nil, err
	}
	folder.Name = strings.TrimSpace(name)
	return folder, nil
}

// DeleteFolder removes the folder and its entire subtree, then purges the
// subtree's blobs. The purge runs after the database transaction committed
// and never fails the operation; a blob left behind on purge error is
// orphaned storage, not inconsistent state.
func (s *folderService) DeleteFolder(ctx context.Context, ownerID string, folderID int64) (*services.SubtreeDeletion, error) {
	folder, err := s.authorizer.AuthorizeFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	deletion, err := s.deleter.DeleteSubtree(ctx, ownerID, folder)
	if err != nil {
		return nil, err
	}

	// The rows are gone; finish the purge even if the request is cancelled.
	purgeCtx := context.WithoutCancel(ctx)
	for _, key := range deletion.ExternalKeys {
		if err := s.blobStore.Delete(purgeCtx, key); err != nil {
			s.logger.Error("failed to purge blob after subtree delete",
				"key", key, "folder_id", folderID, "error", err)
		}
	}

	return deletion, nil
}

func (s *folderService) ListFolder(ctx context.Context, ownerID string, folderID int64) (*services.FolderContents, error) {
	folder, err := s.authorizer.AuthorizeFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}

	ancestors, err := s.ancestry.Resolve(ctx, folder)
	if err != nil {
		return nil, err
	}

	folders, err := s.folderRepo.ListChildren(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	files, err := s.fileRepo.ListByParent(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	return &services.FolderContents{
		Folder:    folder,
		Ancestors: ancestors,
		Folders:   folders,
		Files:     files,
	}, nil
}

func (s *folderService) GetAncestors(ctx context.Context, ownerID string, folderID int64) ([]models.Folder, error) {
	folder, err := s.authorizer.AuthorizeFolder(ctx, ownerID, folderID)
	if err != nil {
		return nil, err
	}
	return s.ancestry.Resolve(ctx, folder)
}

func validateFolderName(name string) error {
	err := validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("folder name is required"),
		validation.Length(1, config.MaxFolderNameLength),
		validation.By(noPathSeparators),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func noPathSeparators(value any) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, "/\\") {
		return errors.New("must not contain path separators")
	}
	return nil
}
