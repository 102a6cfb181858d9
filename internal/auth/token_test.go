package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssueAndParse(t *testing.T) {
	issuer, err := NewTokenIssuer("signkey", "cinevibe", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Issue("user-42")
	require.NoError(t, err)

	userID, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestTokenParseRejectsWrongSecret(t *testing.T) {
	issuer, err := NewTokenIssuer("signkey", "cinevibe", time.Hour)
	require.NoError(t, err)
	other, err := NewTokenIssuer("otherkey", "cinevibe", time.Hour)
	require.NoError(t, err)

	signed, err := issuer.Issue("user-42")
	require.NoError(t, err)

	_, err = other.Parse(signed)
	assert.Error(t, err)
}

func TestTokenParseRejectsWrongIssuer(t *testing.T) {
	issuer, err := NewTokenIssuer("signkey", "cinevibe", time.Hour)
	require.NoError(t, err)
	foreign, err := NewTokenIssuer("signkey", "someone-else", time.Hour)
	require.NoError(t, err)

	signed, err := foreign.Issue("user-42")
	require.NoError(t, err)

	_, err = issuer.Parse(signed)
	assert.Error(t, err)
}

func TestTokenParseRejectsExpired(t *testing.T) {
	issuer, err := NewTokenIssuer("signkey", "cinevibe", time.Millisecond)
	require.NoError(t, err)

	signed, err := issuer.Issue("user-42")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = issuer.Parse(signed)
	assert.Error(t, err)
}

func TestParseBearer(t *testing.T) {
	token, err := ParseBearer("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ParseBearer("")
	assert.Error(t, err)
	_, err = ParseBearer("Basic abc123")
	assert.Error(t, err)
	_, err = ParseBearer("Bearer")
	assert.Error(t, err)
}

func TestNewTokenIssuerValidation(t *testing.T) {
	_, err := NewTokenIssuer("", "cinevibe", time.Hour)
	assert.Error(t, err)
	_, err = NewTokenIssuer("signkey", "", time.Hour)
	assert.Error(t, err)
	_, err = NewTokenIssuer("signkey", "cinevibe", 0)
	assert.Error(t, err)
}
