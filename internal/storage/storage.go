package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store persists uploaded blobs and returns a URL they can be served from.
type Store interface {
	Save(key string, r io.Reader) (string, error)
}

// LocalStore writes uploads under a directory served as static files.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes the blob at key (slashes become subdirectories) and returns its
// public URL.
func (s *LocalStore) Save(key string, r io.Reader) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned == "." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	dest := filepath.Join(s.dir, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", cleaned, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", cleaned, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", cleaned, err)
	}

	return s.baseURL + "/" + cleaned, nil
}
