package docstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes documents to the local filesystem. Used in
// development when no S3 credentials are configured.
type LocalStore struct {
	baseDir string
	baseURL string
}

// NewLocalStore creates a filesystem-backed store rooted at baseDir;
// returned URLs are baseURL + "/" + objectKey.
func NewLocalStore(baseDir, baseURL string) *LocalStore {
	return &LocalStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *LocalStore) Put(ctx context.Context, objectKey string, body []byte, contentType string) (string, error) {
	_ = contentType

	path := filepath.Join(s.baseDir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create document directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document %s: %w", objectKey, err)
	}

	return s.baseURL + "/" + objectKey, nil
}
