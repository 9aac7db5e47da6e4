package people

import "context"

// Row is the basic partition as persisted: plain indexable columns plus the
// encrypted payload. Indexable columns must never contain sensitive content.
type Row struct {
	UID        string
	Name       string
	Branch     string
	Removed    bool
	PayloadEnc []byte
	UpdatedAt  string
}

// SensitiveRow is the independently purgeable sensitive partition.
type SensitiveRow struct {
	UID        string
	PayloadEnc []byte
	CreatedAt  string
	UpdatedAt  string
}

// JoinedRow is a basic row left-joined with its sensitive row.
// SensitivePayloadEnc is nil when no sensitive data has been collected.
type JoinedRow struct {
	Row
	SensitivePayloadEnc []byte
}

// Repository describes persistence for person rows. Implementations are
// backed by the local SQLite database and never decrypt payloads.
type Repository interface {
	// Upsert inserts or replaces the basic row by uid.
	Upsert(ctx context.Context, row *Row) error

	// UpsertSensitive inserts or replaces the sensitive row, preserving
	// created_at on update.
	UpsertSensitive(ctx context.Context, row *SensitiveRow) error

	// DeleteSensitive removes the sensitive row outright. Deleting an absent
	// row is not an error.
	DeleteSensitive(ctx context.Context, uid string) error

	// HasSensitive reports whether a sensitive row exists for uid.
	HasSensitive(ctx context.Context, uid string) (bool, error)

	// Get returns one joined row by uid, or common.ErrNotFound.
	Get(ctx context.Context, uid string) (*JoinedRow, error)

	// GetAll returns every joined row ordered by case-insensitive name,
	// empty names first.
	GetAll(ctx context.Context) ([]JoinedRow, error)

	// Delete hard-deletes both partitions (sensitive via cascade).
	// Returns common.ErrNotFound when the uid does not exist.
	Delete(ctx context.Context, uid string) error
}
