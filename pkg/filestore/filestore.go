// Package filestore accepts uploaded media and returns a retrievable URL
// reference. The rest of the system stores only the reference.
package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore stores an uploaded file and returns its public URL.
type FileStore interface {
	Save(ctx context.Context, filename string, contentType string, r io.Reader) (string, error)
}

// KeyFor builds a collision-free object key preserving the extension.
func KeyFor(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), ext)
}

// LocalFileStore writes files under a base directory and serves them from a
// base URL. Used in development and tests.
type LocalFileStore struct {
	baseDir string
	baseURL string
	prefix  string
}

// NewLocalFileStore creates a LocalFileStore rooted at baseDir.
func NewLocalFileStore(baseDir, baseURL, prefix string) *LocalFileStore {
	return &LocalFileStore{baseDir: baseDir, baseURL: strings.TrimRight(baseURL, "/"), prefix: prefix}
}

func (s *LocalFileStore) Save(ctx context.Context, filename string, contentType string, r io.Reader) (string, error) {
	key := KeyFor(s.prefix, filename)
	path := filepath.Join(s.baseDir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
