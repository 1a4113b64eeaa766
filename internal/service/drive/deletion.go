package drive

import (
	"context"
	"fmt"
	"log/slog"

	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
)

// SubtreeDeleter removes a folder and everything under it as one atomic
// unit and reports which external blob keys must be purged afterwards.
type SubtreeDeleter struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewSubtreeDeleter creates a new subtree deleter
func NewSubtreeDeleter(
	folderRepo repositories.FolderRepository,
	fileRepo   repositories.FileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *SubtreeDeleter {
	return &SubtreeDeleter{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// DeleteSubtree deletes folder and its full descendant closure. The folder
// must already be authorized against ownerID by the caller.
//
// The closure read and the delete are separate phases; only the delete is
// transactional. Every row the read phase collected is removed in one
// transaction - on any failure the store is left exactly as before. The
// returned external keys have NOT been purged from the blob store yet;
// purging is the caller's job, strictly after this returns.
func (d *SubtreeDeleter) DeleteSubtree(ctx context.Context, ownerID string, folder *models.Folder) (*services.SubtreeDeletion, error) {
	folderIDs, err := d.collectClosure(ctx, ownerID, folder.ID)
	if err != nil {
		return nil, err
	}

	files, err := d.fileRepo.ListByParents(ctx, folderIDs, ownerID)
	if err != nil {
		return nil, err
	}

	fileIDs := make([]int64, len(files))
	externalKeys := make([]string, len(files))
	for i, f := range files {
		fileIDs[i] = f.ID
		externalKeys[i] = f.ExternalKey
	}

	// One transaction for every row: files first, then folders.
	err = d.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := d.fileRepo.DeleteByIDs(txCtx, fileIDs, ownerID); err != nil {
			return fmt.Errorf("delete subtree files: %w", err)
		}
		if _, err := d.folderRepo.DeleteByIDs(txCtx, folderIDs, ownerID); err != nil {
			return fmt.Errorf("delete subtree folders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("subtree deleted",
		"root_folder_id", folder.ID,
		"owner_id", ownerID,
		"folder_count", len(folderIDs),
		"file_count", len(files),
	)

	return &services.SubtreeDeletion{
		FolderIDs:    folderIDs,
		ExternalKeys: externalKeys,
	}, nil
}

// collectClosure computes the transitive closure of folder ids reachable
// from rootID via the parent relation, inclusive of rootID itself. A plain
// breadth-first worklist over child lookups; the visited set terminates the
// walk even against corrupted (cyclic) data.
func (d *SubtreeDeleter) collectClosure(ctx context.Context, ownerID string, rootID int64) ([]int64, error) {
	visited := map[int64]bool{rootID: true}
	closure := []int64{rootID}
	queue := []int64{rootID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := d.folderRepo.ListChildIDs(ctx, current, ownerID)
		if err != nil {
			return nil, fmt.Errorf("list children of folder %d: %w", current, err)
		}

		for _, child := range children {
			if visited[child] {
				continue
			}
			visited[child] = true
			closure = append(closure, child)
			queue = append(queue, child)
		}
	}

	return closure, nil
}
