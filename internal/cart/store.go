package cart

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// Store is the durable key/value backing for client session state. It
// replaces the ambient browser storage with an explicitly passed handle:
// one entry holds the serialized cart sequence, one the user record.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
}
