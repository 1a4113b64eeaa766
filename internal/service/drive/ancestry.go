package drive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"drivebox/internal/config"
	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
)

// AncestryResolver walks parent pointers from a folder up to its root,
// producing the ordered breadcrumb path.
type AncestryResolver struct {
	folderRepo repositories.FolderRepository
	logger     *slog.Logger
}

// NewAncestryResolver creates a new ancestry resolver
func NewAncestryResolver(folderRepo repositories.FolderRepository, logger *slog.Logger) *AncestryResolver {
	return &AncestryResolver{
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// Resolve returns the path from the root down to folder: root first, the
// given folder last. The caller must have authorized folder already; the
// upward walk itself is unscoped because the creation invariant guarantees
// every ancestor shares the folder's owner.
//
// A parent id that no longer resolves means the tree is corrupted; that is
// surfaced as ErrInconsistent rather than a plain not-found. The walk is
// bounded by config.MaxAncestryDepth so corrupted data cannot loop forever;
// overflowing the bound surfaces ErrCycleDetected.
func (r *AncestryResolver) Resolve(ctx context.Context, folder *models.Folder) ([]models.Folder, error) {
	path := []models.Folder{*folder}

	current := folder
	for current.ParentID != nil {
		if len(path) >= config.MaxAncestryDepth {
			r.logger.Error("ancestry walk exceeded depth bound",
				"folder_id", folder.ID,
				"depth", len(path),
			)
			return nil, fmt.Errorf("folder %d: %w", folder.ID, domain.ErrCycleDetected)
		}

		parent, err := r.folderRepo.GetByID(ctx, *current.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Dangling parent pointer: data corruption, not a user error.
				r.logger.Error("dangling parent pointer in folder tree",
					"folder_id", current.ID,
					"parent_id", *current.ParentID,
				)
				return nil, fmt.Errorf("folder %d has dangling parent %d: %w",
					current.ID, *current.ParentID, domain.ErrInconsistent)
			}
			return nil, err
		}

		path = append([]models.Folder{*parent}, path...)
		current = parent
	}

	return path, nil
}
