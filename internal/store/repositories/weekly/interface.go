package weekly

import "context"

// Row is one calendar week of the tracker. The per-weekday structure exists
// only inside the encrypted payload, never as separate rows.
type Row struct {
	WeekStart  string
	WeekEnd    string
	UpdatedAt  string
	PayloadEnc []byte
}

// Repository describes persistence for weekly tracker rows keyed by
// week_start (a canonical Friday date).
type Repository interface {
	// Upsert inserts or replaces the week row. One row per calendar week.
	Upsert(ctx context.Context, row *Row) error

	// Get returns the week row, or common.ErrNotFound.
	Get(ctx context.Context, weekStart string) (*Row, error)

	// ListWeekStarts returns all stored week keys, newest first.
	ListWeekStarts(ctx context.Context) ([]string, error)
}
