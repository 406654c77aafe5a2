package storage

import (
	"context"

	"github.com/iudanet/deltamirror/internal/models"
)

// Publication is the result of one update_file cycle.
// It is persisted atomically: the patch, the new baseline and the ledger bump
// become visible together or not at all.
type Publication struct {
	Patch    *models.Patch
	Baseline []byte
	// Record is the new ledger record (target version and hash)
	Record models.FileRecord
	// ExpectedVersion is the ledger version the patch was computed against
	ExpectedVersion models.Version
	// KeepPatches bounds patch history per file, 0 keeps everything
	KeepPatches int
}

// LedgerStorage defines interface for the repository ledger and baseline snapshots
type LedgerStorage interface {
	// CreateFile registers a new file with its initial record and baseline
	// Returns ErrFileExists if the name is already registered
	CreateFile(ctx context.Context, rec *models.FileRecord, baseline []byte) error

	// GetRecord retrieves ledger record by file name
	// Returns ErrFileNotFound if file is not tracked
	GetRecord(ctx context.Context, name string) (*models.FileRecord, error)

	// ListRecords returns every ledger record ordered by name
	ListRecords(ctx context.Context) ([]models.FileRecord, error)

	// GetBaseline returns the content published with the current ledger version
	// Returns ErrFileNotFound if file is not tracked
	GetBaseline(ctx context.Context, name string) ([]byte, error)

	// GetFullFile returns baseline and ledger record read in one transaction
	// Returns ErrFileNotFound if file is not tracked
	GetFullFile(ctx context.Context, name string) (*models.FullFile, error)

	// PublishUpdate stores patch, overwrites baseline, bumps ledger and prunes history
	// in a single transaction
	// Returns ErrVersionConflict if ledger version differs from ExpectedVersion
	PublishUpdate(ctx context.Context, pub *Publication) error
}
