package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by StorageProvider.Get for keys that were never written
var ErrKeyNotFound = errors.New("storage key not found")

// StorageProvider is durable client storage holding one JSON document per key
type StorageProvider interface {
	// Get retrieves a value; it returns ErrKeyNotFound for missing keys
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value
	Delete(ctx context.Context, key string) error
}
