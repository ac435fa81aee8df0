package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/filedepot/filedepot-api/internal/domain"
	"github.com/filedepot/filedepot-api/internal/store"
)

// PasswordHasher computes one-way password digests. Only the digest is
// ever persisted or compared.
type PasswordHasher interface {
	Hash(password string) string
}

// SessionRevoker deletes the session bound to a token.
type SessionRevoker interface {
	Revoke(ctx context.Context, token string) error
}

// NewCreateUserProcessor returns the processor for the createUser kind.
// It validates the inputs, enforces email uniqueness, digests the
// password, and persists the user. The read-then-write uniqueness check is
// best effort: two concurrent submissions for the same email may both pass
// it, which is an accepted race.
func NewCreateUserProcessor(users store.UserStore, hasher PasswordHasher, logger *slog.Logger) Processor {
	return func(ctx context.Context, payload Payload) (any, error) {
		p, ok := payload.(CreateUserPayload)
		if !ok {
			return nil, fmt.Errorf("%w: createUser payload has type %T", domain.ErrInternal, payload)
		}

		if err := domain.ValidateNewUser(p.Email, p.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}

		_, err := users.GetByEmail(ctx, p.Email)
		if err == nil {
			return nil, fmt.Errorf("%w: email", domain.ErrAlreadyExists)
		}
		if !errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: checking existing email: %v", domain.ErrInternal, err)
		}

		user := &domain.User{
			Email:          p.Email,
			PasswordDigest: hasher.Hash(p.Password),
		}

		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				return nil, fmt.Errorf("%w: email", domain.ErrAlreadyExists)
			}
			return nil, fmt.Errorf("%w: creating user: %v", domain.ErrInternal, err)
		}

		logger.Info("user created", "user_id", user.ID.Hex())
		return user, nil
	}
}

// NewSignInProcessor returns the processor for the signInUser kind. It
// digests the supplied password and looks up a user matching both email
// and digest. "No user" is a successful empty outcome, not a failure; the
// caller maps it to an unauthorized response.
func NewSignInProcessor(users store.UserStore, hasher PasswordHasher, logger *slog.Logger) Processor {
	return func(ctx context.Context, payload Payload) (any, error) {
		p, ok := payload.(SignInPayload)
		if !ok {
			return nil, fmt.Errorf("%w: signInUser payload has type %T", domain.ErrInternal, payload)
		}

		digest := hasher.Hash(strings.TrimSpace(p.Password))

		user, err := users.GetByCredentials(ctx, p.Email, digest)
		if errors.Is(err, store.ErrUserNotFound) {
			return (*domain.User)(nil), nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: looking up credentials: %v", domain.ErrInternal, err)
		}

		logger.Debug("user signed in", "user_id", user.ID.Hex())
		return user, nil
	}
}

// NewSignOutProcessor returns the processor for the signOutUser kind.
// Revocation is idempotent, so the task always succeeds unless the cache
// itself is unavailable.
func NewSignOutProcessor(sessions SessionRevoker, logger *slog.Logger) Processor {
	return func(ctx context.Context, payload Payload) (any, error) {
		p, ok := payload.(SignOutPayload)
		if !ok {
			return nil, fmt.Errorf("%w: signOutUser payload has type %T", domain.ErrInternal, payload)
		}

		if err := sessions.Revoke(ctx, p.Token); err != nil {
			return nil, fmt.Errorf("%w: revoking session: %v", domain.ErrInternal, err)
		}

		logger.Debug("session revoked")
		return nil, nil
	}
}
