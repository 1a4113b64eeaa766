package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"drivebox/internal/auth"
	"drivebox/internal/blob"
	"drivebox/internal/config"
	"drivebox/internal/handler"
	"drivebox/internal/middleware"
	"drivebox/internal/repository/postgres"
	svcauth "drivebox/internal/service/auth"
	"drivebox/internal/service/drive"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logOutput := io.Writer(os.Stdout)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	jwtVerifier, err := auth.NewJWKSVerifier(cfg.AuthJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Create blob store
	blobStore, err := blob.NewS3Store(cfg)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create services
	authorizer := svcauth.NewOwnerAuthorizer(folderRepo, fileRepo)
	ancestry := drive.NewAncestryResolver(folderRepo, logger)
	deleter := drive.NewSubtreeDeleter(folderRepo, fileRepo, txManager, logger)
	folderService := drive.NewFolderService(folderRepo, fileRepo, authorizer, ancestry, deleter, blobStore, logger)
	fileService := drive.NewFileService(fileRepo, authorizer, blobStore, logger)

	// Create handlers
	driveHandler := handler.NewDriveHandler(folderService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	fileHandler := handler.NewFileHandler(fileService, cfg.MaxUploadSize, logger)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", driveHandler.HealthCheck)

	mux.HandleFunc("GET /api/drive", driveHandler.GetDrive)
	mux.HandleFunc("POST /api/drive", driveHandler.ProvisionDrive)

	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("GET /api/folders/{id}/ancestors", folderHandler.GetAncestors)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.RenameFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	mux.HandleFunc("POST /api/files", fileHandler.CreateFile)
	mux.HandleFunc("POST /api/files/upload", fileHandler.Upload)
	mux.HandleFunc("GET /api/files/{id}", fileHandler.GetFile)
	mux.HandleFunc("PATCH /api/files/{id}", fileHandler.RenameFile)
	mux.HandleFunc("DELETE /api/files/{id}", fileHandler.DeleteFile)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	h = middleware.Auth(jwtVerifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
