package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "secret1", hash)

	// bcrypt salts every hash, two calls must not collide
	hash2, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestHashPassword_Empty(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestVerifyPassword_EmptyStored(t *testing.T) {
	// External accounts carry no credential and must never verify.
	assert.False(t, VerifyPassword("", "anything"))
	assert.False(t, VerifyPassword("", ""))
}

func TestVerifyPassword_LegacyDigest(t *testing.T) {
	digest := LegacyHashPassword("secret1")
	require.Len(t, digest, 64)

	assert.True(t, VerifyPassword(digest, "secret1"))
	assert.False(t, VerifyPassword(digest, "secret2"))
}

func TestLegacyHashPassword_Deterministic(t *testing.T) {
	assert.Equal(t, LegacyHashPassword("p"), LegacyHashPassword("p"))
	assert.NotEqual(t, LegacyHashPassword("p"), LegacyHashPassword("q"))
}
