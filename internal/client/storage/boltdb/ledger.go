package boltdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/deltamirror/internal/client/storage"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/workspace"
	"go.etcd.io/bbolt"
)

// GetRecord returns the local ledger record for the file
func (s *Storage) GetRecord(ctx context.Context, name string) (*models.FileRecord, error) {
	var rec models.FileRecord

	err := s.view(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketLedger).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %s", storage.ErrRecordNotFound, name)
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListRecords returns all ledger records; bbolt keeps keys sorted
func (s *Storage) ListRecords(ctx context.Context) ([]models.FileRecord, error) {
	var records []models.FileRecord

	err := s.view(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLedger).ForEach(func(k, v []byte) error {
			var rec models.FileRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("failed to decode record %s: %w", k, err)
			}
			records = append(records, rec)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// ReadContent reads the file from the mirror directory
func (s *Storage) ReadContent(ctx context.Context, name string) ([]byte, error) {
	data, err := s.files.Read(name)
	if errors.Is(err, workspace.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrContentMissing, name)
	}
	return data, err
}

// CommitFile stages the content next to the file, then in one BoltDB transaction
// puts the record and promotes the staged file. If the transaction fails the
// previous content is restored from the backup.
func (s *Storage) CommitFile(ctx context.Context, rec models.FileRecord, content []byte) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	staged, err := s.files.Stage(rec.Name, content)
	if err != nil {
		return fmt.Errorf("failed to stage %s: %w", rec.Name, err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketLedger).Put([]byte(rec.Name), data); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
		// Последний шаг транзакции: при ошибке Put файл не трогается
		return staged.Promote()
	})
	if err != nil {
		if rbErr := staged.Rollback(); rbErr != nil {
			return errors.Join(fmt.Errorf("failed to commit %s: %w", rec.Name, err), rbErr)
		}
		return fmt.Errorf("failed to commit %s: %w", rec.Name, err)
	}

	// Новое состояние уже зафиксировано, резервная копия лишь мусор
	_ = staged.Finish()
	return nil
}
