package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage keeps blobs under a directory that the API serves at baseURL.
// Used in development in place of S3.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates root if needed
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %s: %w", root, err)
	}
	return &LocalStorage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// BasePath returns the directory blobs are written under
func (s *LocalStorage) BasePath() string {
	return s.root
}

// PublicBaseURL is the prefix GetURL puts in front of keys
func (s *LocalStorage) PublicBaseURL() string {
	return s.baseURL
}

// resolve maps a key onto the file system, refusing anything that would
// leave root
func (s *LocalStorage) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(filepath.Clean("/"+key))), nil
}

// Put writes to a temp file next to the target and renames it into place,
// so readers never see a partial blob.
func (s *LocalStorage) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob; a missing blob is not an error
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	target, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PresignGet returns the public URL: files under root are served as-is.
// A key with no file behind it fails like an unsignable key would.
func (s *LocalStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	target, err := s.resolve(key)
	if err != nil {
		return "", &SigningError{Key: key, Err: err}
	}
	info, err := os.Stat(target)
	if err != nil {
		return "", &SigningError{Key: key, Err: err}
	}
	if info.IsDir() {
		return "", &SigningError{Key: key, Err: fmt.Errorf("%s is a directory", key)}
	}
	return s.GetURL(key), nil
}

// GetURL returns the public URL for key
func (s *LocalStorage) GetURL(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}
