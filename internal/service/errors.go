package service

import "errors"

// Sentinel errors shared by the transaction recorders. Handlers pick status
// codes with errors.Is, so services must return these wrapped with %w.
var (
	// ErrSequenceExhausted means all 9999 numbers for a kind/day are taken.
	// There is no retry across days — the caller gets a server error.
	ErrSequenceExhausted = errors.New("daily transaction number space exhausted")

	// ErrDuplicateNumber means the storage-level uniqueness constraint fired
	// after a successful allocation scan (two requests raced for the same
	// number). The whole creation failed; the client may retry it.
	ErrDuplicateNumber = errors.New("transaction number already claimed")

	// ErrNotFound means the referenced record id does not exist.
	ErrNotFound = errors.New("record not found")
)
