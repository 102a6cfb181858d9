// Package media stores uploaded review images on the filesystem under
// opaque references. Ownership of the bytes stays here; reviews only hold
// the reference string.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cinevibe/cinevibe-server/internal/domain"
)

// extByContentType doubles as the allowed-type whitelist.
var extByContentType = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
}

var contentTypeByExt = map[string]string{
	"png": "image/png",
	"jpg": "image/jpeg",
	"gif": "image/gif",
}

// Store manages media blobs in a single directory. Safe for concurrent use.
type Store struct {
	dir      string
	maxBytes int64
	mu       sync.RWMutex
}

// NewStore creates the backing directory if needed. maxBytes is the upload
// size ceiling.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("media directory cannot be empty")
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("media size ceiling must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Put stores data and returns an opaque reference for it.
// Fails with domain.ErrInvalidInput when data is empty, exceeds the
// configured ceiling, or contentType is outside the image whitelist.
func (s *Store) Put(data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty media payload", domain.ErrInvalidInput)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: media exceeds %d bytes", domain.ErrInvalidInput, s.maxBytes)
	}
	ext, ok := extByContentType[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", domain.ErrInvalidInput, contentType)
	}

	ref := fmt.Sprintf("%s.%s", uuid.NewString(), ext)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return ref, nil
}

// Get returns the stored bytes and their content type.
// Fails with domain.ErrNotFound when ref does not resolve.
func (s *Store) Get(ref string) ([]byte, string, error) {
	contentType, err := resolveContentType(ref)
	if err != nil {
		return nil, "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: media %s", domain.ErrNotFound, ref)
		}
		return nil, "", fmt.Errorf("read media file: %w", err)
	}
	return data, contentType, nil
}

// Exists reports whether ref resolves to stored bytes.
func (s *Store) Exists(ref string) bool {
	if _, err := resolveContentType(ref); err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := os.Stat(s.path(ref))
	return err == nil
}

// Delete removes the blob for ref. Best-effort: a missing file is not an
// error.
func (s *Store) Delete(ref string) error {
	if _, err := resolveContentType(ref); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(ref)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (s *Store) path(ref string) string {
	return filepath.Join(s.dir, ref)
}

// resolveContentType validates the reference shape (uuid.ext) so crafted
// refs cannot escape the media directory, and maps it back to a MIME type.
func resolveContentType(ref string) (string, error) {
	base, ext, ok := strings.Cut(ref, ".")
	if !ok {
		return "", fmt.Errorf("%w: malformed media reference", domain.ErrInvalidInput)
	}
	if _, err := uuid.Parse(base); err != nil {
		return "", fmt.Errorf("%w: malformed media reference", domain.ErrInvalidInput)
	}
	contentType, found := contentTypeByExt[ext]
	if !found {
		return "", fmt.Errorf("%w: malformed media reference", domain.ErrInvalidInput)
	}
	return contentType, nil
}
