package drive

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/services"
)

func sortedInt64(in []int64) []int64 {
	out := append([]int64(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestDeleteFolder_Subtree(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// root -> Pictures (with one file), root -> Songs.
	root := &models.Folder{OwnerID: "owner-a", Name: "root"}
	if err := env.folderRepo.Create(ctx, root); err != nil {
		t.Fatalf("create root: %v", err)
	}
	pictures := &models.Folder{OwnerID: "owner-a", Name: "Pictures", ParentID: &root.ID}
	if err := env.folderRepo.Create(ctx, pictures); err != nil {
		t.Fatalf("create pictures: %v", err)
	}
	songs := &models.Folder{OwnerID: "owner-a", Name: "Songs", ParentID: &root.ID}
	if err := env.folderRepo.Create(ctx, songs); err != nil {
		t.Fatalf("create songs: %v", err)
	}
	photo := &models.File{OwnerID: "owner-a", ParentID: pictures.ID, Name: "photo.jpg", ExternalKey: "k-photo"}
	if err := env.fileRepo.Create(ctx, photo); err != nil {
		t.Fatalf("create file: %v", err)
	}

	deletion, err := env.folders.DeleteFolder(ctx, "owner-a", pictures.ID)
	if err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	if len(deletion.FolderIDs) != 1 || deletion.FolderIDs[0] != pictures.ID {
		t.Errorf("FolderIDs = %v, want [%d]", deletion.FolderIDs, pictures.ID)
	}
	if len(deletion.ExternalKeys) != 1 || deletion.ExternalKeys[0] != "k-photo" {
		t.Errorf("ExternalKeys = %v, want [k-photo]", deletion.ExternalKeys)
	}

	// The blob was purged after the rows went away.
	if len(env.blobStore.deleted) != 1 || env.blobStore.deleted[0] != "k-photo" {
		t.Errorf("purged blobs = %v, want [k-photo]", env.blobStore.deleted)
	}

	// Songs is untouched.
	remaining, err := env.folderRepo.ListChildren(ctx, root.ID, "owner-a")
	if err != nil {
		t.Fatalf("ListChildren() error = %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != songs.ID {
		t.Errorf("remaining children = %v, want only Songs (%d)", remaining, songs.ID)
	}
}

func TestDeleteFolder_DeepTree(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	root := &models.Folder{OwnerID: "owner-a", Name: "root"}
	if err := env.folderRepo.Create(ctx, root); err != nil {
		t.Fatalf("create root: %v", err)
	}

	// Build a tree of depth 5 with two folders and one file per level.
	var wantFolders []int64
	var wantKeys []string
	parents := []int64{root.ID}
	for depth := 0; depth < 5; depth++ {
		var next []int64
		for _, p := range parents {
			for i := 0; i < 2; i++ {
				f := &models.Folder{OwnerID: "owner-a", Name: fmt.Sprintf("d%d-%d", depth, i), ParentID: &p}
				if err := env.folderRepo.Create(ctx, f); err != nil {
					t.Fatalf("create folder: %v", err)
				}
				wantFolders = append(wantFolders, f.ID)
				next = append(next, f.ID)

				key := fmt.Sprintf("k-%d", f.ID)
				file := &models.File{OwnerID: "owner-a", ParentID: f.ID, Name: "f.bin", ExternalKey: key}
				if err := env.fileRepo.Create(ctx, file); err != nil {
					t.Fatalf("create file: %v", err)
				}
				wantKeys = append(wantKeys, key)
			}
		}
		parents = next
	}

	deletion, err := env.folders.DeleteFolder(ctx, "owner-a", root.ID)
	if err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	wantAll := append([]int64{root.ID}, wantFolders...)
	gotFolders := sortedInt64(deletion.FolderIDs)
	if len(gotFolders) != len(wantAll) {
		t.Fatalf("deleted %d folders, want %d", len(gotFolders), len(wantAll))
	}
	wantSorted := sortedInt64(wantAll)
	for i := range wantSorted {
		if gotFolders[i] != wantSorted[i] {
			t.Fatalf("deleted folder ids = %v, want %v", gotFolders, wantSorted)
		}
	}
	if len(deletion.ExternalKeys) != len(wantKeys) {
		t.Errorf("deleted %d keys, want %d", len(deletion.ExternalKeys), len(wantKeys))
	}

	// Nothing survives.
	if len(env.store.folders) != 0 {
		t.Errorf("%d folders remain, want 0", len(env.store.folders))
	}
	if len(env.store.files) != 0 {
		t.Errorf("%d files remain, want 0", len(env.store.files))
	}
}

func TestDeleteFolder_AtomicOnFailure(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	root := &models.Folder{OwnerID: "owner-a", Name: "root"}
	if err := env.folderRepo.Create(ctx, root); err != nil {
		t.Fatalf("create root: %v", err)
	}
	sub := &models.Folder{OwnerID: "owner-a", Name: "Sub", ParentID: &root.ID}
	if err := env.folderRepo.Create(ctx, sub); err != nil {
		t.Fatalf("create sub: %v", err)
	}
	file := &models.File{OwnerID: "owner-a", ParentID: sub.ID, Name: "f.txt", ExternalKey: "k-f"}
	if err := env.fileRepo.Create(ctx, file); err != nil {
		t.Fatalf("create file: %v", err)
	}

	env.store.failNextFolderDelete = true

	_, err := env.folders.DeleteFolder(ctx, "owner-a", sub.ID)
	if err == nil {
		t.Fatal("DeleteFolder() succeeded, want injected failure")
	}

	// The file delete inside the transaction was rolled back with it.
	if _, err := env.fileRepo.GetOwned(ctx, file.ID, "owner-a"); err != nil {
		t.Errorf("file gone after failed transaction: %v", err)
	}
	if _, err := env.folderRepo.GetOwned(ctx, sub.ID, "owner-a"); err != nil {
		t.Errorf("folder gone after failed transaction: %v", err)
	}

	// No blob purge happened for a failed delete.
	if len(env.blobStore.deleted) != 0 {
		t.Errorf("purged blobs = %v, want none", env.blobStore.deleted)
	}
}

func TestDeleteFolder_Unowned(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	provision, _ := env.folders.CreateRoot(ctx, "owner-a")

	_, err := env.folders.DeleteFolder(ctx, "owner-b", provision.Root.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteFolder() error = %v, want %v", err, domain.ErrNotFound)
	}
}

func TestDeleteFolder_PurgeFailureDoesNotFail(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	provision, _ := env.folders.CreateRoot(ctx, "owner-a")
	sub, err := env.folders.CreateFolder(ctx, "owner-a", &services.CreateFolderRequest{
		ParentID: provision.Root.ID,
		Name:     "Sub",
	})
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if _, err := env.files.CreateFile(ctx, "owner-a", &services.CreateFileRequest{
		ParentID:    sub.ID,
		Name:        "f.txt",
		ExternalKey: "k-f",
	}); err != nil {
		t.Fatalf("CreateFile() error = %v", err)
	}

	env.blobStore.failOnce("delete")

	deletion, err := env.folders.DeleteFolder(ctx, "owner-a", sub.ID)
	if err != nil {
		t.Fatalf("DeleteFolder() error = %v, want success despite purge failure", err)
	}
	if len(deletion.ExternalKeys) != 1 {
		t.Errorf("ExternalKeys = %v, want one key", deletion.ExternalKeys)
	}

	// The rows are gone regardless.
	if _, err := env.folderRepo.GetOwned(ctx, sub.ID, "owner-a"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("folder lookup after delete: error = %v, want %v", err, domain.ErrNotFound)
	}
}
