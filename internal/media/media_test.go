package media

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevibe/cinevibe-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), 1024)
	require.NoError(t, err)
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	payload := bytes.Repeat([]byte{0x89, 0x50}, 16)

	ref, err := store.Put(payload, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, ".png"))

	got, contentType, err := store.Get(ref)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, "image/png", contentType)
	assert.True(t, store.Exists(ref))
}

func TestPutRejectsOversized(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Put(make([]byte, 2048), "image/png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPutRejectsDisallowedContentType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Put([]byte("#!/bin/sh"), "application/x-sh")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = store.Put(nil, "image/png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUnknownRef(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get("0d9ff201-74e4-43c8-b5d2-2b23ef719b45.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetMalformedRef(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get("../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, store.Exists("../../etc/passwd"))
}

func TestDeleteIsBestEffort(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Put([]byte("gif89a"), "image/gif")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ref))
	assert.False(t, store.Exists(ref))

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(ref))
}
