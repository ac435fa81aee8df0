package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/store"
)

// filesCollection is the document store collection holding file metadata.
const filesCollection = "files"

// FileStore implements store.FileStore on a MongoDB collection.
type FileStore struct {
	coll *mongo.Collection
}

// NewFileStore creates a MongoDB implementation of store.FileStore.
func NewFileStore(db *mongo.Database) *FileStore {
	return &FileStore{
		coll: db.Collection(filesCollection),
	}
}

// Ensure FileStore implements store.FileStore.
var _ store.FileStore = (*FileStore)(nil)

// Create implements store.FileStore.Create.
func (s *FileStore) Create(ctx context.Context, file *domain.File) error {
	res, err := s.coll.InsertOne(ctx, file)
	if err != nil {
		return fmt.Errorf("failed to insert file: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		file.ID = oid
	}
	return nil
}

// GetByID implements store.FileStore.GetByID.
func (s *FileStore) GetByID(ctx context.Context, id string) (*domain.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetByIDForOwner implements store.FileStore.GetByIDForOwner.
func (s *FileStore) GetByIDForOwner(ctx context.Context, id, ownerID string) (*domain.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	return s.findOne(ctx, bson.M{"_id": oid, "userId": owner})
}

// ListByParent implements store.FileStore.ListByParent.
func (s *FileStore) ListByParent(ctx context.Context, ownerID, parentID string, skip, limit int64) ([]domain.File, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, store.ErrInvalidID
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, bson.M{"userId": owner, "parentId": parentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var files []domain.File
	if err := cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, nil
}

// SetPublic implements store.FileStore.SetPublic.
func (s *FileStore) SetPublic(ctx context.Context, id, ownerID string, isPublic bool) (*domain.File, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, store.ErrInvalidID
	}

	filter := bson.M{"_id": oid, "userId": owner}
	patch := bson.M{"$set": bson.M{"isPublic": isPublic}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var file domain.File
	err = s.coll.FindOneAndUpdate(ctx, filter, patch, opts).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update file visibility: %w", err)
	}
	return &file, nil
}

// Count implements store.FileStore.Count.
func (s *FileStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return n, nil
}

func (s *FileStore) findOne(ctx context.Context, filter bson.M) (*domain.File, error) {
	var file domain.File
	err := s.coll.FindOne(ctx, filter).Decode(&file)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return &file, nil
}
