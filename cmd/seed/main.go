package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"drivebox/internal/config"
	"drivebox/internal/repository/postgres"
	"drivebox/internal/seed"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed fixtures")
	clearData := flag.Bool("clear-data", false, "Clear all folders and files (keep schema)")
	fixturePath := flag.String("fixtures", "fixtures.yaml", "Path to the YAML fixture file")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Printf("Ensuring database schema is up to date (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("Clearing existing folders and files...")
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
		return
	}

	// Load and apply fixtures
	fixture, err := seed.Load(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixtures: %v", err)
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)

	seeder := seed.NewSeeder(folderRepo, fileRepo, logger)
	if err := seeder.Apply(ctx, fixture); err != nil {
		log.Fatalf("Failed to apply fixtures: %v", err)
	}
	log.Printf("Seeding complete (owner: %s)", fixture.OwnerID)
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id BIGSERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			name TEXT NOT NULL,
			parent_id BIGINT REFERENCES ` + tables.Folders + `(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id BIGSERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			parent_id BIGINT NOT NULL REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			size BIGINT NOT NULL DEFAULT 0,
			url TEXT NOT NULL DEFAULT '',
			mime_type TEXT NOT NULL DEFAULT '',
			external_key TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	// One root per owner: rows with a NULL parent are unique per owner_id.
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_root_unique ON ` + tables.Folders + `(owner_id) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent ON ` + tables.Folders + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_owner ON ` + tables.Folders + `(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_parent ON ` + tables.Files + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_owner ON ` + tables.Files + `(owner_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Files,
		tables.Folders,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}

	return nil
}

// clearAllData deletes every row while keeping the schema
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Files); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders); err != nil {
		return err
	}
	return nil
}
