package storage

import (
	"context"
	"io"
)

// StoredObject describes where a saved file ended up.
type StoredObject struct {
	Path      string
	PublicURL string
}

// Storage persists uploaded files. The disk implementation is the
// default; the interface keeps the service testable and leaves room for
// an object-store backend.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}
