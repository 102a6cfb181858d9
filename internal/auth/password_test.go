package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.True(t, VerifyPassword(hash, "Secret123"))
	assert.False(t, VerifyPassword(hash, "secret123"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	first, err := HashPassword("Secret123")
	require.NoError(t, err)
	second, err := HashPassword("Secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashPasswordRejectsBadInput(t *testing.T) {
	_, err := HashPassword("")
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", maxPasswordLength+1))
	assert.Error(t, err)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-hash", "Secret123"))
	assert.False(t, VerifyPassword("$argon2i$v=19$m=1,t=1,p=1$AAAA$AAAA", "Secret123"))
}
