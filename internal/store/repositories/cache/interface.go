package cache

import "context"

// Row is one sensitive-tier cache entry. The key is stored in the clear
// (the table itself is access-controlled by the store); the value is
// SecurityManager-encrypted. ExpiresAt is UTC epoch seconds.
type Row struct {
	Key       string
	ExpiresAt int64
	ValueEnc  []byte
}

// Repository describes persistence for the encrypted cache table.
type Repository interface {
	// Get returns the row for key regardless of expiry, or common.ErrNotFound.
	// Expiry policy belongs to the cache layer, not the repository.
	Get(ctx context.Context, key string) (*Row, error)

	// Set inserts or replaces a row unconditionally.
	Set(ctx context.Context, row *Row) error

	// Delete removes one row. Deleting an absent row is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteExpired removes every row with expires_at <= now.
	DeleteExpired(ctx context.Context, now int64) error
}
