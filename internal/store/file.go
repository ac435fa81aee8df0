package store

import (
	"context"

	"github.com/filedepot/filedepot-api/internal/domain"
)

// ListPageSize is the fixed page size for file listings.
const ListPageSize = 20

// FileStore defines the interface for file metadata persistence.
//
// Every lookup that takes an ownerID is owner-scoped: a file belonging to a
// different user is reported as not found, never as forbidden. This applies
// to parent/hierarchy lookups as well.
type FileStore interface {
	// Create saves a new file record and fills in its generated ID.
	Create(ctx context.Context, file *domain.File) error

	// GetByID retrieves a file by its hex ID regardless of owner. Used for
	// read-path resolution where public files are visible to everyone.
	// Returns ErrFileNotFound if the file does not exist.
	GetByID(ctx context.Context, id string) (*domain.File, error)

	// GetByIDForOwner retrieves a file by hex ID, scoped to the owner.
	// Returns ErrFileNotFound if the file does not exist or belongs to a
	// different user.
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.File, error)

	// ListByParent returns the owner's files under the given parent,
	// skipping skip records and returning at most limit.
	ListByParent(ctx context.Context, ownerID, parentID string, skip, limit int64) ([]domain.File, error)

	// SetPublic updates the visibility flag of the owner's file and returns
	// the updated record. Returns ErrFileNotFound if the file does not
	// exist or belongs to a different user.
	SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*domain.File, error)

	// Count returns the total number of files, used for stats reporting.
	Count(ctx context.Context) (int64, error)
}
