package storage

import (
	"context"
	"time"
)

// MetadataStorage defines interface for storing mirror metadata
type MetadataStorage interface {
	// NodeID returns the mirror identifier, generating it on first use
	NodeID(ctx context.Context) (string, error)

	// SaveLastCheck saves the time of the last completed check or sync
	SaveLastCheck(ctx context.Context, t time.Time) error

	// GetLastCheck returns the time of the last check
	// Returns zero time if no check has been performed yet
	GetLastCheck(ctx context.Context) (time.Time, error)
}

// Storage combines everything the mirror keeps locally
type Storage interface {
	LedgerStorage
	MetadataStorage
	Close() error
}
