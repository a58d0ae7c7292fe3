package repositories

import "context"

// KeyValueStore is durable string persistence used for the conversion queue and cache snapshots.
type KeyValueStore interface {
	// Get returns the value of key; found is false when the key does not exist.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
