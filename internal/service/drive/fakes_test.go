package drive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"drivebox/internal/domain"
	"drivebox/internal/domain/models"
	"drivebox/internal/domain/repositories"
	"drivebox/internal/domain/services"
	svcauth "drivebox/internal/service/auth"
)

// fakeStore is an in-memory stand-in for the postgres repositories. It
// honors the same contracts: owner-scoped lookups return ErrNotFound for
// unowned rows, a second root per owner fails with ErrConflict, and
// DeleteByIDs reports affected rows.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	folders map[int64]models.Folder
	files   map[int64]models.File

	// failNextFolderDelete makes the next folder DeleteByIDs call fail.
	// Used to test that a failed transaction leaves the store untouched.
	failNextFolderDelete bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		folders: make(map[int64]models.Folder),
		files:   make(map[int64]models.File),
	}
}

func (s *fakeStore) snapshot() (map[int64]models.Folder, map[int64]models.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	folders := make(map[int64]models.Folder, len(s.folders))
	for k, v := range s.folders {
		folders[k] = v
	}
	files := make(map[int64]models.File, len(s.files))
	for k, v := range s.files {
		files[k] = v
	}
	return folders, files
}

func (s *fakeStore) restore(folders map[int64]models.Folder, files map[int64]models.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = folders
	s.files = files
}

// fakeFolderRepo implements repositories.FolderRepository over a fakeStore.
type fakeFolderRepo struct {
	store *fakeStore
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if folder.ParentID == nil {
		for _, f := range s.folders {
			if f.OwnerID == folder.OwnerID && f.ParentID == nil {
				return fmt.Errorf("%w: root already exists", domain.ErrConflict)
			}
		}
	}

	s.nextID++
	folder.ID = s.nextID
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	s.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id int64) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (r *fakeFolderRepo) GetOwned(ctx context.Context, id int64, ownerID string) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (r *fakeFolderRepo) GetRoot(ctx context.Context, ownerID string) (*models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.folders {
		if f.OwnerID == ownerID && f.ParentID == nil {
			root := f
			return &root, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, parentID int64, ownerID string) ([]models.Folder, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Folder
	for _, f := range s.folders {
		if f.OwnerID == ownerID && f.ParentID != nil && *f.ParentID == parentID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) ListChildIDs(ctx context.Context, parentID int64, ownerID string) ([]int64, error) {
	children, err := r.ListChildren(ctx, parentID, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, len(children))
	for i, c := range children {
		ids[i] = c.ID
	}
	return ids, nil
}

func (r *fakeFolderRepo) Rename(ctx context.Context, id int64, ownerID, name string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	s.folders[id] = f
	return nil
}

func (r *fakeFolderRepo) DeleteByIDs(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNextFolderDelete {
		s.failNextFolderDelete = false
		return 0, fmt.Errorf("%w: injected delete failure", domain.ErrExternalStore)
	}
	var n int64
	for _, id := range ids {
		if f, ok := s.folders[id]; ok && f.OwnerID == ownerID {
			delete(s.folders, id)
			n++
		}
	}
	return n, nil
}

// fakeFileRepo implements repositories.FileRepository over a fakeStore.
type fakeFileRepo struct {
	store *fakeStore

	// failNextCreate makes the next Create call fail. Used to test the
	// upload cleanup path.
	failNextCreate bool
	// failNextRename makes the next Rename call fail.
	failNextRename bool
}

func (r *fakeFileRepo) Create(ctx context.Context, file *models.File) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.failNextCreate {
		r.failNextCreate = false
		return fmt.Errorf("%w: injected insert failure", domain.ErrExternalStore)
	}
	for _, f := range s.files {
		if f.ExternalKey == file.ExternalKey {
			return fmt.Errorf("%w: duplicate external key", domain.ErrConflict)
		}
	}

	s.nextID++
	file.ID = s.nextID
	file.CreatedAt = time.Now()
	file.UpdatedAt = file.CreatedAt
	s.files[file.ID] = *file
	return nil
}

func (r *fakeFileRepo) GetOwned(ctx context.Context, id int64, ownerID string) (*models.File, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok || f.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (r *fakeFileRepo) ListByParent(ctx context.Context, parentID int64, ownerID string) ([]models.File, error) {
	return r.ListByParents(ctx, []int64{parentID}, ownerID)
}

func (r *fakeFileRepo) ListByParents(ctx context.Context, parentIDs []int64, ownerID string) ([]models.File, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	parents := make(map[int64]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	var out []models.File
	for _, f := range s.files {
		if f.OwnerID == ownerID && parents[f.ParentID] {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFileRepo) Rename(ctx context.Context, id int64, ownerID, name string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.failNextRename {
		r.failNextRename = false
		return fmt.Errorf("%w: injected rename failure", domain.ErrExternalStore)
	}
	f, ok := s.files[id]
	if !ok || f.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	f.Name = name
	f.UpdatedAt = time.Now()
	s.files[id] = f
	return nil
}

func (r *fakeFileRepo) DeleteByIDs(ctx context.Context, ids []int64, ownerID string) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if f, ok := s.files[id]; ok && f.OwnerID == ownerID {
			delete(s.files, id)
			n++
		}
	}
	return n, nil
}

// fakeTxManager approximates transactional semantics over the fakeStore by
// snapshotting before fn and restoring on error.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	folders, files := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(folders, files)
		return err
	}
	return nil
}

// fakeBlobStore records blob operations and can fail on demand.
type fakeBlobStore struct {
	mu       sync.Mutex
	objects  map[string]string // key -> display name
	deleted  []string
	renamed  []string
	uploads  []string
	failNext map[string]bool // op name -> fail once
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:  make(map[string]string),
		failNext: make(map[string]bool),
	}
}

func (b *fakeBlobStore) failOnce(op string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext[op] = true
}

func (b *fakeBlobStore) shouldFail(op string) bool {
	if b.failNext[op] {
		b.failNext[op] = false
		return true
	}
	return false
}

func (b *fakeBlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shouldFail("upload") {
		return "", fmt.Errorf("%w: injected upload failure", domain.ErrExternalStore)
	}
	b.objects[key] = key
	b.uploads = append(b.uploads, key)
	return "https://blobs.test/" + key, nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shouldFail("delete") {
		return fmt.Errorf("%w: injected delete failure", domain.ErrExternalStore)
	}
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBlobStore) Rename(ctx context.Context, key, newName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shouldFail("rename") {
		return fmt.Errorf("%w: injected rename failure", domain.ErrExternalStore)
	}
	b.objects[key] = newName
	b.renamed = append(b.renamed, key)
	return nil
}

func (b *fakeBlobStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.shouldFail("presign") {
		return "", fmt.Errorf("%w: injected presign failure", domain.ErrExternalStore)
	}
	return fmt.Sprintf("https://blobs.test/%s?expires=%d", key, int64(expiry.Seconds())), nil
}

// testEnv wires the services over the in-memory fakes.
type testEnv struct {
	store      *fakeStore
	folderRepo *fakeFolderRepo
	fileRepo   *fakeFileRepo
	blobStore  *fakeBlobStore
	folders    services.FolderService
	files      services.FileService
	deleter    *SubtreeDeleter
	ancestry   *AncestryResolver
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	folderRepo := &fakeFolderRepo{store: store}
	fileRepo := &fakeFileRepo{store: store}
	blobStore := newFakeBlobStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authorizer := svcauth.NewOwnerAuthorizer(folderRepo, fileRepo)
	ancestry := NewAncestryResolver(folderRepo, logger)
	deleter := NewSubtreeDeleter(folderRepo, fileRepo, &fakeTxManager{store: store}, logger)

	return &testEnv{
		store:      store,
		folderRepo: folderRepo,
		fileRepo:   fileRepo,
		blobStore:  blobStore,
		folders:    NewFolderService(folderRepo, fileRepo, authorizer, ancestry, deleter, blobStore, logger),
		files:      NewFileService(fileRepo, authorizer, blobStore, logger),
		deleter:    deleter,
		ancestry:   ancestry,
	}
}
