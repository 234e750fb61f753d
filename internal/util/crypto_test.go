package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces verifiable bcrypt hash", func(t *testing.T) {
		hash, err := HashPassword("s3cret", bcrypt.MinCost)
		require.NoError(t, err)
		assert.Contains(t, hash, "$2a$")
		assert.True(t, CheckPasswordHash("s3cret", hash))
	})

	t.Run("salts each hash", func(t *testing.T) {
		hash1, _ := HashPassword("s3cret", bcrypt.MinCost)
		hash2, _ := HashPassword("s3cret", bcrypt.MinCost)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("accepts matching password", func(t *testing.T) {
		assert.True(t, CheckPasswordHash("password", hash))
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		assert.False(t, CheckPasswordHash("Password", hash))
	})

	t.Run("rejects malformed hash", func(t *testing.T) {
		assert.False(t, CheckPasswordHash("password", "not-a-hash"))
	})
}

func TestHashCost(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost+2)
	require.NoError(t, err)

	cost, err := HashCost(hash)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+2, cost)

	_, err = HashCost("plain-text")
	assert.Error(t, err)
}
