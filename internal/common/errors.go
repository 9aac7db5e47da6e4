// Package common defines shared constants and sentinel errors used across
// the workvault core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrAuthFailure covers every authenticated-decryption failure: a wrong
	// program password and tampered or truncated ciphertext are deliberately
	// indistinguishable.
	ErrAuthFailure = errors.New("authentication failure")

	// ErrNotAuthenticated means an operation was attempted without an active
	// password.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is the repository-level miss for people, artifacts, weeks
	// and archive members.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArchivePassword is archive-specific and never conflated with
	// ErrAuthFailure: it only surfaces when reading an existing archive.
	ErrInvalidArchivePassword = errors.New("invalid archive password")

	// ErrCorruptData means decryption succeeded but the plaintext failed to
	// parse as the expected structure.
	ErrCorruptData = errors.New("corrupt data")

	// ErrIOFailure means the underlying storage could not be read or
	// written. A missing entity is ErrNotFound, never ErrIOFailure.
	ErrIOFailure = errors.New("storage unavailable")
)
