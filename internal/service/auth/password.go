// Package auth provides password digesting for account creation and
// sign-in.
package auth

import (
	"crypto/sha1" //nolint:gosec // digest-equality lookup requires a deterministic hash
	"encoding/hex"
)

// Hasher defines the interface for computing password digests.
// Sign-in looks users up by (email, digest), so the digest must be
// deterministic; only the digest is ever persisted or compared.
type Hasher interface {
	// Hash returns the one-way digest of the plaintext password.
	Hash(password string) string
}

// SHA1Hasher implements Hasher using a SHA-1 hex digest.
type SHA1Hasher struct{}

// NewSHA1Hasher creates a new SHA1Hasher.
func NewSHA1Hasher() *SHA1Hasher {
	return &SHA1Hasher{}
}

// Hash implements the Hasher interface.
func (h *SHA1Hasher) Hash(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}
