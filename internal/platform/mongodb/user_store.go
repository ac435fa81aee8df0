package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/store"
)

// usersCollection is the document store collection holding user records.
const usersCollection = "users"

// UserStore implements store.UserStore on a MongoDB collection.
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a MongoDB implementation of store.UserStore.
// The database handle should be initialized and managed by the caller.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{
		coll: db.Collection(usersCollection),
	}
}

// Ensure UserStore implements store.UserStore.
var _ store.UserStore = (*UserStore)(nil)

// Create implements store.UserStore.Create.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	existing := s.coll.FindOne(ctx, bson.M{"email": user.Email})
	if existing.Err() == nil {
		return store.ErrEmailExists
	}
	if !errors.Is(existing.Err(), mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing email: %w", existing.Err())
	}

	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrEmailExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrInvalidID
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// GetByCredentials implements store.UserStore.GetByCredentials.
func (s *UserStore) GetByCredentials(ctx context.Context, email, passwordDigest string) (*domain.User, error) {
	return s.findOne(ctx, bson.M{"email": email, "password": passwordDigest})
}

// Count implements store.UserStore.Count.
func (s *UserStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}
