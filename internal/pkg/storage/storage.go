package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore is the blob backend behind photos and comic covers.
type ObjectStore interface {
	// Put stores the object at key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes the object. Returns nil if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// PresignGet returns a time-limited GET URL for key. Failures are *SigningError.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// GetURL returns the public (unsigned) URL for key.
	GetURL(key string) string
}

// SigningError is returned when a signed URL cannot be produced, typically
// because the resolved credential cannot sign.
type SigningError struct {
	Key string
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("sign read url for %q: %v", e.Key, e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}
