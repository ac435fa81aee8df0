package task

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/service/auth"
	"github.com/filedepot/filedepot-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore.
type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*domain.User // keyed by email
	failing bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*domain.User)}
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store unavailable")
	}
	if _, ok := s.users[user.Email]; ok {
		return store.ErrEmailExists
	}
	user.ID = primitive.NewObjectID()
	clone := *user
	s.users[user.Email] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID.Hex() == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errors.New("store unavailable")
	}
	u, ok := s.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) GetByCredentials(ctx context.Context, email, digest string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errors.New("store unavailable")
	}
	u, ok := s.users[email]
	if !ok || u.PasswordDigest != digest {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeUserStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

// fakeRevoker records revoked tokens.
type fakeRevoker struct {
	mu      sync.Mutex
	revoked []string
	err     error
}

func (r *fakeRevoker) Revoke(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.revoked = append(r.revoked, token)
	return nil
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name    string
		payload CreateUserPayload
		wantErr error
	}{
		{
			name:    "valid",
			payload: CreateUserPayload{Email: "a@x.com", Password: "secret"},
		},
		{
			name:    "missing email",
			payload: CreateUserPayload{Password: "secret"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing password",
			payload: CreateUserPayload{Email: "a@x.com"},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := newFakeUserStore()
			proc := NewCreateUserProcessor(users, auth.NewSHA1Hasher(), setupTestLogger())

			value, err := proc(context.Background(), tc.payload)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			user := value.(*domain.User)
			assert.Equal(t, tc.payload.Email, user.Email)
			assert.False(t, user.ID.IsZero())
			// Only the digest is persisted, never the plaintext.
			assert.NotEqual(t, tc.payload.Password, user.PasswordDigest)
			assert.Len(t, user.PasswordDigest, 40)
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	proc := NewCreateUserProcessor(users, auth.NewSHA1Hasher(), setupTestLogger())
	ctx := context.Background()

	_, err := proc(ctx, CreateUserPayload{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	_, err = proc(ctx, CreateUserPayload{Email: "a@x.com", Password: "other"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreateUserStoreFailure(t *testing.T) {
	users := newFakeUserStore()
	users.failing = true
	proc := NewCreateUserProcessor(users, auth.NewSHA1Hasher(), setupTestLogger())

	_, err := proc(context.Background(), CreateUserPayload{Email: "a@x.com", Password: "secret"})
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestSignIn(t *testing.T) {
	users := newFakeUserStore()
	hasher := auth.NewSHA1Hasher()
	create := NewCreateUserProcessor(users, hasher, setupTestLogger())
	signIn := NewSignInProcessor(users, hasher, setupTestLogger())
	ctx := context.Background()

	created, err := create(ctx, CreateUserPayload{Email: "a@x.com", Password: "secret"})
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		value, err := signIn(ctx, SignInPayload{Email: "a@x.com", Password: "secret"})
		require.NoError(t, err)

		user := value.(*domain.User)
		require.NotNil(t, user)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, created.(*domain.User).ID, user.ID)
	})

	t.Run("password is trimmed before digesting", func(t *testing.T) {
		value, err := signIn(ctx, SignInPayload{Email: "a@x.com", Password: "  secret  "})
		require.NoError(t, err)
		assert.NotNil(t, value.(*domain.User))
	})

	t.Run("wrong password is no user, not an error", func(t *testing.T) {
		value, err := signIn(ctx, SignInPayload{Email: "a@x.com", Password: "wrong"})
		require.NoError(t, err)
		assert.Nil(t, value.(*domain.User))
	})

	t.Run("unknown email is no user", func(t *testing.T) {
		value, err := signIn(ctx, SignInPayload{Email: "b@x.com", Password: "secret"})
		require.NoError(t, err)
		assert.Nil(t, value.(*domain.User))
	})
}

func TestSignInStoreFailure(t *testing.T) {
	users := newFakeUserStore()
	users.failing = true
	proc := NewSignInProcessor(users, auth.NewSHA1Hasher(), setupTestLogger())

	_, err := proc(context.Background(), SignInPayload{Email: "a@x.com", Password: "secret"})
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestSignOut(t *testing.T) {
	revoker := &fakeRevoker{}
	proc := NewSignOutProcessor(revoker, setupTestLogger())
	ctx := context.Background()

	_, err := proc(ctx, SignOutPayload{Token: "tok-1"})
	require.NoError(t, err)

	// Signing out an unknown token is equally fine: revocation is
	// idempotent and delegated to the session store.
	_, err = proc(ctx, SignOutPayload{Token: "never-issued"})
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-1", "never-issued"}, revoker.revoked)
}

func TestSignOutCacheFailure(t *testing.T) {
	revoker := &fakeRevoker{err: errors.New("cache down")}
	proc := NewSignOutProcessor(revoker, setupTestLogger())

	_, err := proc(context.Background(), SignOutPayload{Token: "tok"})
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestUserProcessorsRejectForeignPayloads(t *testing.T) {
	users := newFakeUserStore()
	hasher := auth.NewSHA1Hasher()

	procs := []Processor{
		NewCreateUserProcessor(users, hasher, setupTestLogger()),
		NewSignInProcessor(users, hasher, setupTestLogger()),
		NewSignOutProcessor(&fakeRevoker{}, setupTestLogger()),
	}

	for _, proc := range procs {
		_, err := proc(context.Background(), GenerateThumbnailsPayload{})
		assert.ErrorIs(t, err, domain.ErrInternal)
	}
}
