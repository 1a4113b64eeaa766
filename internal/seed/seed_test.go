package seed

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")

	data := `
owner_id: "owner-1"
folders:
  - name: Pictures
    folders:
      - name: Vacation
    files:
      - name: beach.jpg
        size: 1024
        mime_type: image/jpeg
        external_key: seed/beach.jpg
files:
  - name: readme.txt
    size: 64
    external_key: seed/readme.txt
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fixture, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if fixture.OwnerID != "owner-1" {
		t.Errorf("OwnerID = %q, want %q", fixture.OwnerID, "owner-1")
	}
	if len(fixture.Folders) != 1 || fixture.Folders[0].Name != "Pictures" {
		t.Fatalf("Folders = %v, want one folder Pictures", fixture.Folders)
	}
	pictures := fixture.Folders[0]
	if len(pictures.Folders) != 1 || pictures.Folders[0].Name != "Vacation" {
		t.Errorf("nested folders = %v, want [Vacation]", pictures.Folders)
	}
	if len(pictures.Files) != 1 || pictures.Files[0].ExternalKey != "seed/beach.jpg" {
		t.Errorf("nested files = %v, want beach.jpg fixture", pictures.Files)
	}
	if len(fixture.Files) != 1 || fixture.Files[0].Size != 64 {
		t.Errorf("root files = %v, want readme.txt with size 64", fixture.Files)
	}
}

func TestLoad_MissingOwner(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")

	if err := os.WriteFile(path, []byte("folders: []\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() succeeded without owner_id, want error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() succeeded for missing file, want error")
	}
}
