package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
)

// FileFixture describes one seeded file row. The blob itself is not
// uploaded; ExternalKey and URL point at whatever the fixture says.
type FileFixture struct {
	Name        string `yaml:"name"`
	Size        int64  `yaml:"size"`
	MimeType    string `yaml:"mime_type"`
	ExternalKey string `yaml:"external_key"`
	URL         string `yaml:"url"`
}

// FolderFixture describes one seeded folder and its subtree.
type FolderFixture struct {
	Name    string          `yaml:"name"`
	Folders []FolderFixture `yaml:"folders"`
	Files   []FileFixture   `yaml:"files"`
}

// Fixture is a whole seeded drive for one owner. The root folder is
// implicit; the listed folders and files go directly under it.
type Fixture struct {
	OwnerID string          `yaml:"owner_id"`
	Folders []FolderFixture `yaml:"folders"`
	Files   []FileFixture   `yaml:"files"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if fixture.OwnerID == "" {
		return nil, fmt.Errorf("fixture %s: owner_id is required", path)
	}
	return &fixture, nil
}

// Seeder writes fixtures into the repositories.
type Seeder struct {
	folderRepo repositories.FolderRepository
	fileRepo   repositories.FileRepository
	logger     *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(folderRepo repositories.FolderRepository, fileRepo repositories.FileRepository, logger *slog.Logger) *Seeder {
	return &Seeder{
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		logger:     logger,
	}
}

// Apply creates the fixture's tree under the owner's root folder,
// provisioning the root if it does not exist yet.
func (s *Seeder) Apply(ctx context.Context, fixture *Fixture) error {
	root, err := s.folderRepo.GetRoot(ctx, fixture.OwnerID)
	if errors.Is(err, domain.ErrNotFound) {
		root = &models.Folder{
			OwnerID: fixture.OwnerID,
			Name:    "root",
		}
		if err := s.folderRepo.Create(ctx, root); err != nil {
			return fmt.Errorf("create root for %s: %w", fixture.OwnerID, err)
		}
	} else if err != nil {
		return err
	}

	if err := s.applyFolder(ctx, fixture.OwnerID, root.ID, fixture.Folders, fixture.Files); err != nil {
		return err
	}

	s.logger.Info("fixture applied", "owner_id", fixture.OwnerID, "root_id", root.ID)
	return nil
}

func (s *Seeder) applyFolder(ctx context.Context, ownerID string, parentID int64, folders []FolderFixture, files []FileFixture) error {
	for _, ff := range files {
		file := &models.File{
			OwnerID:     ownerID,
			ParentID:    parentID,
			Name:        ff.Name,
			Size:        ff.Size,
			MimeType:    ff.MimeType,
			ExternalKey: ff.ExternalKey,
			URL:         ff.URL,
		}
		if err := s.fileRepo.Create(ctx, file); err != nil {
			return fmt.Errorf("create file %q: %w", ff.Name, err)
		}
	}

	for _, fd := range folders {
		folder := &models.Folder{
			OwnerID:  ownerID,
			Name:     fd.Name,
			ParentID: &parentID,
		}
		if err := s.folderRepo.Create(ctx, folder); err != nil {
			return fmt.Errorf("create folder %q: %w", fd.Name, err)
		}
		if err := s.applyFolder(ctx, ownerID, folder.ID, fd.Folders, fd.Files); err != nil {
			return err
		}
	}

	return nil
}
