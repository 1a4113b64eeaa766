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

// PostgresFileRepository implements the FileRepository interface
type PostgresFileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFileRepository creates a new file repository
func NewFileRepository(config *RepositoryConfig) repositories.FileRepository {
	return &PostgresFileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new file row
func (r *PostgresFileRepository) Create(ctx context.Context, file *models.File) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, parent_id, name, size, url, mime_type, external_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Files)

	now := time.Now()
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		file.OwnerID,
		file.ParentID,
		file.Name,
		file.Size,
		file.URL,
		file.MimeType,
		file.ExternalKey,
		now,
		now,
	).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("external key %q: %w", file.ExternalKey, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("parent folder: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create file: %w", err)
	}

	return nil
}

// GetOwned retrieves a file by ID scoped to its owner
func (r *PostgresFileRepository) GetOwned(ctx context.Context, id int64, ownerID string) (*models.File, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, size, url, mime_type, external_key, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Files)

	var file models.File
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&file.ID,
		&file.OwnerID,
		&file.ParentID,
		&file.Name,
		&file.Size,
		&file.URL,
		&file.MimeType,
		&file.ExternalKey,
		&file.CreatedAt,
		&file.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get file: %w", err)
	}

	return &file, nil
}

// ListByParent lists the files directly inside a folder, ordered by id
func (r *PostgresFileRepository) ListByParent(ctx context.Context, parentID int64, ownerID string) ([]models.File, error) {
	return r.listFiles(ctx, fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, size, url, mime_type, external_key, created_at, updated_at
		FROM %s
		WHERE parent_id = $1 AND owner_id = $2
		ORDER BY id ASC
	`, r.tables.Files), parentID, ownerID)
}

// ListByParents lists every file whose parent is in parentIDs
func (r *PostgresFileRepository) ListByParents(ctx context.Context, parentIDs []int64, ownerID string) ([]models.File, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	return r.listFiles(ctx, fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, size, url, mime_type, external_key, created_at, updated_at
		FROM %s
		WHERE parent_id = ANY($1) AND owner_id = $2
		ORDER BY id ASC
	`, r.tables.Files), parentIDs, ownerID)
}

// Rename updates a file's name in place
func (r *PostgresFileRepository) Rename(ctx context.Context, id int64, ownerID, name string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, updated_at = $2
		WHERE id = $3 AND owner_id = $4
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, name, time.Now(), id, ownerID)
	if err != nil {
		return fmt.Errorf("rename file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("file %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByIDs removes the given file rows. Joins the context transaction
// when one is present.
func (r *PostgresFileRepository) DeleteByIDs(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = ANY($1) AND owner_id = $2
	`, r.tables.Files)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, ids, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete files: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *PostgresFileRepository) listFiles(ctx context.Context, query string, args ...interface{}) ([]models.File, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var files []models.File
	for rows.Next() {
		var file models.File
		err := rows.Scan(
			&file.ID,
			&file.OwnerID,
			&file.ParentID,
			&file.Name,
			&file.Size,
			&file.URL,
			&file.MimeType,
			&file.ExternalKey,
			&file.CreatedAt,
			&file.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}

	return files, nil
}
