// Package kv defines the persistent key-value store that backs all
// application state: the stored credential, the session marker, and the
// serialized ticket collection. Values are independent atomic blobs; the
// store offers no transactions and no locking, so the last writer of a key
// wins unconditionally.
package kv

import "context"

// Store is the abstract key-value store injected into the auth, session,
// and ticket layers. A missing key is reported as (nil, nil), not an error.
type Store interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value under key, replacing any prior value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
