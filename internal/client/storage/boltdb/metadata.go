package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

const (
	keyNodeID    = "node_id"
	keyLastCheck = "last_check"
)

// NodeID returns the mirror identifier, generating a UUID on first call
func (s *Storage) NodeID(ctx context.Context) (string, error) {
	var id string

	err := s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if v := bucket.Get([]byte(keyNodeID)); v != nil {
			id = string(v)
			return nil
		}

		id = uuid.NewString()
		return bucket.Put([]byte(keyNodeID), []byte(id))
	})
	if err != nil {
		return "", fmt.Errorf("failed to get node id: %w", err)
	}

	return id, nil
}

// SaveLastCheck saves the time of the last completed check
func (s *Storage) SaveLastCheck(ctx context.Context, t time.Time) error {
	return s.update(func(tx *bbolt.Tx) error {
		// Конвертируем время в bytes (unix nano)
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))

		if err := tx.Bucket(bucketMetadata).Put([]byte(keyLastCheck), buf); err != nil {
			return fmt.Errorf("failed to save last check: %w", err)
		}
		return nil
	})
}

// GetLastCheck retrieves the time of the last check
// Returns zero time if no check has been performed yet
func (s *Storage) GetLastCheck(ctx context.Context) (time.Time, error) {
	var last time.Time

	err := s.view(func(tx *bbolt.Tx) error {
		buf := tx.Bucket(bucketMetadata).Get([]byte(keyLastCheck))
		if len(buf) != 8 {
			return nil
		}
		last = time.Unix(0, int64(binary.BigEndian.Uint64(buf))).UTC()
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last check: %w", err)
	}

	return last, nil
}
