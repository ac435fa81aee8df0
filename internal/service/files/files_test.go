package files

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/storage"
	"github.com/filedepot/filedepot-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memFileStore is an in-memory store.FileStore recording pagination args.
type memFileStore struct {
	mu        sync.Mutex
	files     map[string]*domain.File
	lastSkip  int64
	lastLimit int64
}

func newMemFileStore() *memFileStore {
	return &memFileStore{files: make(map[string]*domain.File)}
}

func (s *memFileStore) Create(ctx context.Context, file *domain.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	file.ID = primitive.NewObjectID()
	clone := *file
	s.files[file.ID.Hex()] = &clone
	return nil
}

func (s *memFileStore) GetByID(ctx context.Context, id string) (*domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok {
		return nil, store.ErrFileNotFound
	}
	clone := *f
	return &clone, nil
}

func (s *memFileStore) GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok || f.UserID.Hex() != ownerID {
		return nil, store.ErrFileNotFound
	}
	clone := *f
	return &clone, nil
}

func (s *memFileStore) ListByParent(ctx context.Context, ownerID, parentID string, skip, limit int64) ([]domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSkip = skip
	s.lastLimit = limit
	var out []domain.File
	for _, f := range s.files {
		if f.UserID.Hex() == ownerID && f.ParentID == parentID {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (s *memFileStore) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[id]
	if !ok || f.UserID.Hex() != ownerID {
		return nil, store.ErrFileNotFound
	}
	f.IsPublic = isPublic
	clone := *f
	return &clone, nil
}

func (s *memFileStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.files)), nil
}

func (s *memFileStore) add(t *testing.T, file *domain.File) *domain.File {
	t.Helper()
	require.NoError(t, s.Create(context.Background(), file))
	return file
}

func TestGet(t *testing.T) {
	files := newMemFileStore()
	svc := New(files, storage.NewLocal(t.TempDir()), testLogger())
	ctx := context.Background()
	owner := primitive.NewObjectID()

	file := files.add(t, &domain.File{UserID: owner, Name: "doc", Type: domain.TypeFile, ParentID: domain.RootParentID})

	got, err := svc.Get(ctx, owner.Hex(), file.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)

	_, err = svc.Get(ctx, primitive.NewObjectID().Hex(), file.ID.Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Get(ctx, owner.Hex(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPagination(t *testing.T) {
	files := newMemFileStore()
	svc := New(files, storage.NewLocal(t.TempDir()), testLogger())
	ctx := context.Background()
	owner := primitive.NewObjectID()

	_, err := svc.List(ctx, owner.Hex(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), files.lastSkip)
	assert.Equal(t, int64(store.ListPageSize), files.lastLimit)

	_, err = svc.List(ctx, owner.Hex(), "", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3*store.ListPageSize), files.lastSkip)

	// Negative pages clamp to the first page.
	_, err = svc.List(ctx, owner.Hex(), "", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), files.lastSkip)
}

func TestListDefaultsToRoot(t *testing.T) {
	files := newMemFileStore()
	svc := New(files, storage.NewLocal(t.TempDir()), testLogger())
	ctx := context.Background()
	owner := primitive.NewObjectID()

	atRoot := files.add(t, &domain.File{UserID: owner, Name: "a", Type: domain.TypeFile, ParentID: domain.RootParentID})
	folder := files.add(t, &domain.File{UserID: owner, Name: "dir", Type: domain.TypeFolder, ParentID: domain.RootParentID})
	files.add(t, &domain.File{UserID: owner, Name: "b", Type: domain.TypeFile, ParentID: folder.ID.Hex()})

	got, err := svc.List(ctx, owner.Hex(), "", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	ids := []string{got[0].ID.Hex(), got[1].ID.Hex()}
	assert.Contains(t, ids, atRoot.ID.Hex())
	assert.Contains(t, ids, folder.ID.Hex())
}

func TestSetVisibility(t *testing.T) {
	files := newMemFileStore()
	svc := New(files, storage.NewLocal(t.TempDir()), testLogger())
	ctx := context.Background()
	owner := primitive.NewObjectID()

	file := files.add(t, &domain.File{UserID: owner, Name: "doc", Type: domain.TypeFile, ParentID: domain.RootParentID})

	got, err := svc.SetVisibility(ctx, owner.Hex(), file.ID.Hex(), true)
	require.NoError(t, err)
	assert.True(t, got.IsPublic)

	got, err = svc.SetVisibility(ctx, owner.Hex(), file.ID.Hex(), false)
	require.NoError(t, err)
	assert.False(t, got.IsPublic)

	_, err = svc.SetVisibility(ctx, primitive.NewObjectID().Hex(), file.ID.Hex(), true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResolveReadPath(t *testing.T) {
	blobs := storage.NewLocal(t.TempDir())
	svc := New(newMemFileStore(), blobs, testLogger())
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	path, err := blobs.Write([]byte("content"))
	require.NoError(t, err)

	private := &domain.File{UserID: owner, Name: "doc", Type: domain.TypeFile, LocalPath: path}
	public := &domain.File{UserID: owner, Name: "doc", Type: domain.TypeFile, LocalPath: path, IsPublic: true}
	folder := &domain.File{UserID: owner, Name: "dir", Type: domain.TypeFolder, IsPublic: true}

	t.Run("owner reads private file", func(t *testing.T) {
		got, err := svc.ResolveReadPath(private, owner.Hex(), 0)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("stranger cannot see private file", func(t *testing.T) {
		_, err := svc.ResolveReadPath(private, stranger.Hex(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("anonymous cannot see private file", func(t *testing.T) {
		_, err := svc.ResolveReadPath(private, "", 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("anyone reads public file", func(t *testing.T) {
		got, err := svc.ResolveReadPath(public, "", 0)
		require.NoError(t, err)
		assert.Equal(t, path, got)
	})

	t.Run("folder has no content", func(t *testing.T) {
		_, err := svc.ResolveReadPath(folder, owner.Hex(), 0)
		assert.ErrorIs(t, err, domain.ErrNotAFile)
	})

	t.Run("missing blob", func(t *testing.T) {
		gone := &domain.File{UserID: owner, Name: "doc", Type: domain.TypeFile, LocalPath: filepath.Join(blobs.Root(), "nope")}
		_, err := svc.ResolveReadPath(gone, owner.Hex(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestResolveReadPathVariants(t *testing.T) {
	blobs := storage.NewLocal(t.TempDir())
	svc := New(newMemFileStore(), blobs, testLogger())
	owner := primitive.NewObjectID()

	path, err := blobs.Write([]byte("original"))
	require.NoError(t, err)
	variant := storage.VariantPath(path, 250)
	require.NoError(t, os.WriteFile(variant, []byte("smaller"), 0o644))

	image := &domain.File{UserID: owner, Name: "pic.png", Type: domain.TypeImage, LocalPath: path, IsPublic: true}

	t.Run("existing variant", func(t *testing.T) {
		got, err := svc.ResolveReadPath(image, "", 250)
		require.NoError(t, err)
		assert.Equal(t, variant, got)
	})

	t.Run("supported width never generated", func(t *testing.T) {
		_, err := svc.ResolveReadPath(image, "", 100)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("unsupported width", func(t *testing.T) {
		_, err := svc.ResolveReadPath(image, "", 123)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
