package repositories

import (
	"context"

	"drivebox/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
//
// Owner-scoped lookups return domain.ErrNotFound for rows that exist but
// belong to someone else; callers must not be able to tell the difference.
type FolderRepository interface {
	// Create inserts a new folder and fills in its generated ID and
	// timestamps. A second root for the same owner fails with
	// domain.ErrConflict (partial unique index).
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID without owner scoping. Reserved
	// for the ancestry walk, which authorizes the walk's starting point
	// separately.
	GetByID(ctx context.Context, id int64) (*models.Folder, error)

	// GetOwned retrieves a folder by ID scoped to its owner.
	GetOwned(ctx context.Context, id int64, ownerID string) (*models.Folder, error)

	// GetRoot retrieves the owner's root folder (parent IS NULL).
	GetRoot(ctx context.Context, ownerID string) (*models.Folder, error)

	// ListChildren lists immediate child folders, ordered by id.
	ListChildren(ctx context.Context, parentID int64, ownerID string) ([]models.Folder, error)

	// ListChildIDs lists immediate child folder ids. Used by the subtree
	// closure walk.
	ListChildIDs(ctx context.Context, parentID int64, ownerID string) ([]int64, error)

	// Rename updates a folder's name in place.
	Rename(ctx context.Context, id int64, ownerID, name string) error

	// DeleteByIDs removes the given folder rows and reports how many rows
	// went away. Joins the context transaction when one is present.
	DeleteByIDs(ctx context.Context, ids []int64, ownerID string) (int64, error)
}
