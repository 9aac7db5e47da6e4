package meta

import "context"

// Repository is a plain key/value table for store-level metadata such as the
// schema-version migration gate.
type Repository interface {
	// Get returns the value for key, or common.ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
