package storage

import "errors"

// Common mirror storage errors
var (
	// ErrRecordNotFound indicates that the local ledger has no record for the file
	ErrRecordNotFound = errors.New("ledger record not found")

	// ErrContentMissing indicates that the file content is absent from the mirror directory
	ErrContentMissing = errors.New("file content missing")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
