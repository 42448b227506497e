package docview

import (
	"context"
	"errors"
)

// ErrQuotaExceeded is returned by BlobStore.Set when the store cannot
// accept the value without exceeding its storage budget.
var ErrQuotaExceeded = errors.New("docview: storage quota exceeded")

// BlobStore is a durable key-value store backing the persistent cache.
// It is treated as a black box: the persistent cache serializes entries
// itself and never inspects stored bytes.
type BlobStore interface {
	// Get returns the stored value. Returns an ENOTFOUND-coded error when
	// the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value, replacing any previous one. May return
	// ErrQuotaExceeded when the store is over budget.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value. Idempotent - no error on missing keys.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys, oldest write first, so callers can
	// evict by age under quota pressure.
	Keys(ctx context.Context) ([]string, error)
}
