package auth

import (
	"context"

	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
)

// OwnerAuthorizer verifies that an acting identity owns an entity before
// any mutation or disclosure touches it.
//
// The policy is deliberately blunt: an entity owned by someone else fails
// exactly like a missing entity (domain.ErrNotFound), never ErrForbidden,
// so a probe cannot learn whether an id exists. Every check re-resolves the
// entity fresh; nothing is cached across calls.
type OwnerAuthorizer struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
}

// NewOwnerAuthorizer creates a new ownership-based authorizer
func NewOwnerAuthorizer(
	folderRepo repositories.FolderRepository,
	fileRepo repositories.FileRepository,
) *OwnerAuthorizer {
	return &OwnerAuthorizer{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
	}
}

// AuthorizeFolder returns the folder if ownerID owns it.
func (a *OwnerAuthorizer) AuthorizeFolder(ctx context.Context, ownerID string, folderID int64) (*models.Folder, error) {
	// GetOwned already filters by owner; an unowned row is a miss.
	return a.folderRepo.GetOwned(ctx, folderID, ownerID)
}

// AuthorizeFile returns the file if ownerID owns it.
func (a *OwnerAuthorizer) AuthorizeFile(ctx context.Context, ownerID string, fileID int64) (*models.File, error) {
	return a.fileRepo.GetOwned(ctx, fileID, ownerID)
}
