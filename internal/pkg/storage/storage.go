package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("object not found")

// Object describes one file in the remote folder.
type Object struct {
	ID         string
	Name       string
	ModifiedAt time.Time
	Size       int64
}

// BlobStore is a flat folder of files keyed by file identifier.
type BlobStore interface {
	// List returns every file in the folder
	List(ctx context.Context) ([]Object, error)

	// Download retrieves a file by id
	Download(ctx context.Context, id string) (io.ReadCloser, error)

	// Upload replaces the content of an existing file
	Upload(ctx context.Context, id string, content io.Reader, contentType string) error

	// Create adds a new file named name to the folder
	Create(ctx context.Context, name string, content io.Reader, contentType string) (Object, error)
}

// ReadAll downloads a file fully into memory.
func ReadAll(ctx context.Context, store BlobStore, id string) ([]byte, error) {
	rc, err := store.Download(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// FindByName returns the first object with the exact name.
func FindByName(objects []Object, name string) (Object, bool) {
	for _, o := range objects {
		if o.Name == name {
			return o, true
		}
	}
	return Object{}, false
}
