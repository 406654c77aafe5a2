package storage

import (
	"context"

	"github.com/iudanet/deltamirror/internal/models"
)

//go:generate moq -out ledger_mock.go . LedgerStorage

// LedgerStorage defines interface for the mirror's local ledger and file contents
type LedgerStorage interface {
	// GetRecord returns the local ledger record or ErrRecordNotFound
	GetRecord(ctx context.Context, name string) (*models.FileRecord, error)

	// ListRecords returns all local ledger records sorted by name
	ListRecords(ctx context.Context) ([]models.FileRecord, error)

	// ReadContent returns the local file content or ErrContentMissing
	ReadContent(ctx context.Context, name string) ([]byte, error)

	// CommitFile atomically replaces both the file content and its ledger record:
	// after return either both changed or neither did
	CommitFile(ctx context.Context, rec models.FileRecord, content []byte) error
}
