package models

import "time"

// ArtifactKind partitions artifacts by purpose.
type ArtifactKind string

const (
	ArtifactKindArchive ArtifactKind = "archive"
	ArtifactKindExport  ArtifactKind = "export"
)

// Artifact is an operational blob (monthly archive, export file) stored
// encrypted at rest. Payload holds the decrypted bytes; repositories only
// ever see the encrypted form.
type Artifact struct {
	Kind      ArtifactKind
	Name      string
	CreatedAt time.Time
	Mime      string
	Payload   []byte
}

// Todo is a plaintext task list row. Completing a todo appends its text to
// the current weekday in the weekly tracker.
type Todo struct {
	ID          int64
	Text        string
	Completed   bool
	CreatedAt   string
	CompletedAt string
}
