package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Backend when no snapshot is stored under a key.
var ErrNotFound = errors.New("snapshot not found")

// Backend is a durable key/value store for serialized snapshots. Put replaces
// the whole value for a key in one step.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Close() error
}
