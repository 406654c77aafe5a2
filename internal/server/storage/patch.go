package storage

import (
	"context"

	"github.com/iudanet/deltamirror/internal/models"
)

// PatchStorage defines interface for patch history keyed by (file_name, base_version)
type PatchStorage interface {
	// GetPatch retrieves the patch whose base version equals base
	// Returns ErrPatchNotFound if history no longer holds it
	GetPatch(ctx context.Context, name string, base models.Version) (*models.Patch, error)

	// ListPatches returns patch metadata for a file, oldest first
	// Returns empty slice if history is empty
	ListPatches(ctx context.Context, name string) ([]models.PatchInfo, error)
}

// Storage combines every repository persistence concern
type Storage interface {
	LedgerStorage
	PatchStorage
	Close() error
}
