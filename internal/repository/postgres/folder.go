package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new folder row. The partial unique index on
// (owner_id) WHERE parent_id IS NULL turns a duplicate root into ErrConflict.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, parent_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	now := time.Now()
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		now,
		now,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder %q: %w", folder.Name, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID without owner scoping. Used only by the
// ancestry walk; everything else goes through GetOwned.
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Folders)

	return r.scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id), id)
}

// GetOwned retrieves a folder by ID scoped to its owner. A row owned by
// someone else is indistinguishable from a missing row.
func (r *PostgresFolderRepository) GetOwned(ctx context.Context, id int64, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Folders)

	return r.scanFolder(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID), id)
}

// GetRoot retrieves the owner's root folder
func (r *PostgresFolderRepository) GetRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM %s
		WHERE owner_id = $1 AND parent_id IS NULL
	`, r.tables.Folders)

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("root folder: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get root folder: %w", err)
	}

	return &folder, nil
}

// ListChildren lists immediate child folders, ordered by id
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID int64, ownerID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, created_at, updated_at
		FROM %s
		WHERE parent_id = $1 AND owner_id = $2
		ORDER BY id ASC
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.Name,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// ListChildIDs lists immediate child folder ids for the closure walk
func (r *PostgresFolderRepository) ListChildIDs(ctx context.Context, parentID int64, ownerID string) ([]int64, error) {
	query := fmt.Sprintf(`
		SELECT id
		FROM %s
		WHERE parent_id = $1 AND owner_id = $2
		ORDER BY id ASC
	`, r.tables.Folders)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, parentID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list child folder ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan folder id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folder ids: %w", err)
	}

	return ids, nil
}

// Rename updates a folder's name in place
func (r *PostgresFolderRepository) Rename(ctx context.Context, id int64, ownerID, name string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, name, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByIDs removes the given folder rows in one statement so the
// self-referencing parent FK is satisfied when parents and children go
// together. Joins the context transaction when one is present.
func (r *PostgresFolderRepository) DeleteByIDs(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1) AND owner_id = $2
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete folders: %w", err)
	}

	return result.RowsAffected(), nil
}

// scanFolder scans a single folder row, mapping no-rows to ErrNotFound
func (r *PostgresFolderRepository) scanFolder(row interface {
	Scan(dest ...interface{}) error
}, id int64) (*models.Folder, error) {
	var folder models.Folder
	err := row.Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}
