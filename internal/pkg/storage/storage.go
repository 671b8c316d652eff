package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get when nothing is stored under the path.
var ErrNotExist = errors.New("stored object does not exist")

// Storage defines the blob store used for item photos.
type Storage interface {
	// Save writes content under the relative path, creating parents as needed.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get opens the object stored under the relative path.
	// Returns ErrNotExist (wrapped) when the object is missing.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
