package artifacts

import "context"

// Row is an artifact as persisted. PayloadEnc is always SecurityManager
// output; the repository never sees plaintext.
type Row struct {
	Kind       string
	Name       string
	CreatedAt  string
	Mime       string
	PayloadEnc []byte
}

// Repository describes persistence for artifacts keyed by (kind, name).
type Repository interface {
	// Upsert inserts a new artifact or replaces the payload (and mime) of an
	// existing one. created_at of the first insert is preserved.
	Upsert(ctx context.Context, row *Row) error

	// Get returns one artifact, or common.ErrNotFound.
	Get(ctx context.Context, kind, name string) (*Row, error)

	// ListNames returns artifact names of one kind, newest first.
	ListNames(ctx context.Context, kind string) ([]string, error)

	// Delete removes an artifact; common.ErrNotFound when absent.
	Delete(ctx context.Context, kind, name string) error
}
