// Package session implements token issuance, lookup, and revocation over a
// TTL'd key-value cache. No in-process state is kept, so a single Store is
// safely shared by concurrent callers without additional locking.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TokenTTL is how long an issued token remains valid.
const TokenTTL = 24 * time.Hour

// keyPrefix namespaces session tokens in the shared cache.
const keyPrefix = "auth_"

// Cache is the narrow key-value contract the store depends on. Expiry is
// enforced by the cache itself; Get reports absent and expired keys the
// same way.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store issues and resolves session tokens.
type Store struct {
	cache  Cache
	logger *slog.Logger
}

// New creates a session Store backed by the given cache.
func New(cache Cache, logger *slog.Logger) *Store {
	return &Store{
		cache:  cache,
		logger: logger,
	}
}

// Issue generates a new opaque token for the user and records it with a
// 24-hour expiry. Token entropy makes collisions negligible, so no
// collision check is performed.
func (s *Store) Issue(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	if err := s.cache.Set(ctx, keyPrefix+token, userID, TokenTTL); err != nil {
		return "", fmt.Errorf("failed to record session: %w", err)
	}

	s.logger.Debug("session issued", "user_id", userID)
	return token, nil
}

// Resolve returns the user ID bound to the token. The second return value
// is false when the token is unknown or expired.
func (s *Store) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	userID, ok, err := s.cache.Get(ctx, keyPrefix+token)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve session: %w", err)
	}
	return userID, ok, nil
}

// Revoke deletes the session for the token. Revoking an unknown or
// already-revoked token is a no-op, not an error.
func (s *Store) Revoke(ctx context.Context, token string) error {
	if err := s.cache.Del(ctx, keyPrefix+token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
