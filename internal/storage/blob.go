package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("storage: object not found")

type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
}
