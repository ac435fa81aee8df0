package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA1HasherDeterministic(t *testing.T) {
	h := NewSHA1Hasher()

	assert.Equal(t, h.Hash("secret"), h.Hash("secret"))
	assert.NotEqual(t, h.Hash("secret"), h.Hash("Secret"))
}

func TestSHA1HasherKnownDigest(t *testing.T) {
	h := NewSHA1Hasher()

	// sha1("secret")
	assert.Equal(t, "e5e9fa1ba31ecd1ae84f75caaa474f3a663f05f4", h.Hash("secret"))
	// The digest is hex-encoded and fixed length.
	assert.Len(t, h.Hash(""), 40)
}
