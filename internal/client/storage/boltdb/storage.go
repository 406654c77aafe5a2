package boltdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/deltamirror/internal/client/storage"
	"github.com/iudanet/deltamirror/internal/workspace"
	"go.etcd.io/bbolt"
	berrors "go.etcd.io/bbolt/errors"
)

var (
	// BoltDB bucket names
	bucketLedger   = []byte("ledger")
	bucketMetadata = []byte("metadata")
)

var _ storage.Storage = (*Storage)(nil)

// Storage represents BoltDB storage implementation for the mirror.
// Ledger records and metadata live in BoltDB, file contents in the mirror directory.
type Storage struct {
	db    *bbolt.DB
	files *workspace.Dir
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file, files is the mirror directory
func New(ctx context.Context, dbPath string, files *workspace.Dir) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db, files: files}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLedger, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// update выполняет запись, возвращая ErrStorageClosed для закрытой базы
func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	err := s.db.Update(fn)
	if errors.Is(err, berrors.ErrDatabaseNotOpen) {
		return storage.ErrStorageClosed
	}
	return err
}

func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	err := s.db.View(fn)
	if errors.Is(err, berrors.ErrDatabaseNotOpen) {
		return storage.ErrStorageClosed
	}
	return err
}
