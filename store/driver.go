package store

import (
	"context"
)

// Driver is an interface for the local storage backend.
// It contains all methods that a key-value driver should implement.
// Values are opaque JSON text; encoding happens in the Store facade.
type Driver interface {
	// Get returns the raw value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores the raw value for key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
	// Delete removes the value for key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every stored key.
	Clear(ctx context.Context) error

	Close() error
}
