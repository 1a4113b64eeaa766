package repositories

import (
	"context"

	"drivebox/internal/domain/models"
)

// FileRepository defines data access operations for file metadata rows.
// The same owner-scoping contract as FolderRepository applies.
type FileRepository interface {
	// Create inserts a new file row and fills in its generated ID and
	// timestamps. A duplicate external key fails with domain.ErrConflict.
	Create(ctx context.Context, file *models.File) error

	// GetOwned retrieves a file by ID scoped to its owner.
	GetOwned(ctx context.Context, id int64, ownerID string) (*models.File, error)

	// ListByParent lists the files directly inside a folder, ordered by id.
	ListByParent(ctx context.Context, parentID int64, ownerID string) ([]models.File, error)

	// ListByParents lists every file whose parent is in parentIDs. Used to
	// collect a subtree's files before deletion.
	ListByParents(ctx context.Context, parentIDs []int64, ownerID string) ([]models.File, error)

	// Rename updates a file's name in place.
	Rename(ctx context.Context, id int64, ownerID, name string) error

	// DeleteByIDs removes the given file rows and reports how many rows
	// went away. Joins the context transaction when one is present.
	DeleteByIDs(ctx context.Context, ids []int64, ownerID string) (int64, error)
}
