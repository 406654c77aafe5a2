package storage

import (
	"errors"

	"github.com/iudanet/deltamirror/internal/ledger"
)

// Common storage errors
var (
	// ErrFileNotFound indicates that the file is not tracked by the repository
	ErrFileNotFound = ledger.ErrUnknownFile

	// ErrFileExists indicates that the file is already registered
	ErrFileExists = ledger.ErrAlreadyRegistered

	// ErrPatchNotFound indicates that patch history holds no patch for the requested base version
	ErrPatchNotFound = errors.New("patch not found")

	// ErrVersionConflict indicates that the ledger moved past the expected base version
	ErrVersionConflict = errors.New("version conflict")
)
