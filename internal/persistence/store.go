package persistence

import (
	"context"
	"errors"
)

// KeyValueStore is the durable storage capability injected into the stores.
// Implementations must be safe for concurrent use.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}

var ErrKeyNotFound = errors.New("key not found")
