// Package files implements read access to stored files: owner-scoped
// lookups and listings, visibility toggling, and read-path resolution with
// access control.
package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/storage"
	"github.com/filedepot/filedepot-api/internal/store"
)

// BlobChecker reports whether a blob is present on disk.
type BlobChecker interface {
	Exists(path string) bool
}

// Service resolves file visibility and on-disk paths for read access.
type Service struct {
	files  store.FileStore
	blobs  BlobChecker
	logger *slog.Logger
}

// New creates a file Service.
func New(files store.FileStore, blobs BlobChecker, logger *slog.Logger) *Service {
	return &Service{
		files:  files,
		blobs:  blobs,
		logger: logger,
	}
}

// Get returns the owner's file, or ErrNotFound when it does not exist or
// belongs to someone else.
func (s *Service) Get(ctx context.Context, ownerID, fileID string) (*domain.File, error) {
	file, err := s.files.GetByIDForOwner(ctx, fileID, ownerID)
	if store.IsNotFoundError(err) || errors.Is(err, store.ErrInvalidID) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading file: %v", domain.ErrInternal, err)
	}
	return file, nil
}

// List returns one page of the owner's files under parentID. Pages are
// fixed at store.ListPageSize records; negative pages read as page zero.
func (s *Service) List(ctx context.Context, ownerID, parentID string, page int64) ([]domain.File, error) {
	if parentID == "" {
		parentID = domain.RootParentID
	}
	if page < 0 {
		page = 0
	}

	result, err := s.files.ListByParent(ctx, ownerID, parentID, page*store.ListPageSize, store.ListPageSize)
	if errors.Is(err, store.ErrInvalidID) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: listing files: %v", domain.ErrInternal, err)
	}
	return result, nil
}

// SetVisibility flips the isPublic flag on the owner's file and returns
// the updated record.
func (s *Service) SetVisibility(ctx context.Context, ownerID, fileID string, isPublic bool) (*domain.File, error) {
	file, err := s.files.SetPublic(ctx, fileID, ownerID, isPublic)
	if store.IsNotFoundError(err) || errors.Is(err, store.ErrInvalidID) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: updating visibility: %v", domain.ErrInternal, err)
	}

	s.logger.Debug("file visibility changed",
		"file_id", fileID,
		"is_public", isPublic)
	return file, nil
}

// GetForRead returns the file by ID without owner scoping, for read-path
// resolution where public files are visible to anyone.
func (s *Service) GetForRead(ctx context.Context, fileID string) (*domain.File, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if store.IsNotFoundError(err) || errors.Is(err, store.ErrInvalidID) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading file: %v", domain.ErrInternal, err)
	}
	return file, nil
}

// ResolveReadPath resolves the on-disk path for reading a file's content.
// A non-public file is readable only by its owner; anyone else gets
// ErrNotFound so existence is never revealed. Folders yield ErrNotAFile.
// If width is nonzero the size-variant path is used; it must be one of the
// generated widths and must exist on disk.
func (s *Service) ResolveReadPath(file *domain.File, requesterID string, width int) (string, error) {
	if !file.IsPublic && !file.OwnedBy(requesterID) {
		return "", domain.ErrNotFound
	}

	if file.Type == domain.TypeFolder {
		return "", domain.ErrNotAFile
	}

	path := file.LocalPath
	if width != 0 {
		if !validWidth(width) {
			return "", fmt.Errorf("%w: unsupported size %d", domain.ErrValidation, width)
		}
		path = storage.VariantPath(path, width)
	}

	if path == "" || !s.blobs.Exists(path) {
		return "", domain.ErrNotFound
	}
	return path, nil
}

func validWidth(width int) bool {
	for _, w := range storage.ThumbnailWidths {
		if width == w {
			return true
		}
	}
	return false
}
