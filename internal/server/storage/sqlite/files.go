package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/storage"
)

// queryer общий интерфейс *sql.DB и *sql.Tx для чтения
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateFile registers a new file with its initial record and baseline
// Returns ErrFileExists if the name is already registered
func (s *Storage) CreateFile(ctx context.Context, rec *models.FileRecord, baseline []byte) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM files WHERE name = ?`, rec.Name).Scan(&exists)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", storage.ErrFileExists, rec.Name)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("failed to check file: %w", err)
		}

		now := s.now().Unix()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO files (name, major, minor, patch, content_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, rec.Name, rec.Version.Major, rec.Version.Minor, rec.Version.Patch, rec.Hash, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert file: %w", err)
		}

		if baseline == nil {
			baseline = []byte{}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO baselines (file_name, content) VALUES (?, ?)`, rec.Name, baseline); err != nil {
			return fmt.Errorf("failed to insert baseline: %w", err)
		}

		return nil
	})
}

// GetRecord retrieves ledger record by file name
// Returns ErrFileNotFound if file is not tracked
func (s *Storage) GetRecord(ctx context.Context, name string) (*models.FileRecord, error) {
	return getRecord(ctx, s.db, name)
}

// ListRecords returns every ledger record ordered by name
func (s *Storage) ListRecords(ctx context.Context) (records []models.FileRecord, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, major, minor, patch, content_hash
		FROM files
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	records = []models.FileRecord{}
	for rows.Next() {
		var rec models.FileRecord
		if err := rows.Scan(&rec.Name, &rec.Version.Major, &rec.Version.Minor, &rec.Version.Patch, &rec.Hash); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return records, nil
}

// GetBaseline returns the content published with the current ledger version
// Returns ErrFileNotFound if file is not tracked
func (s *Storage) GetBaseline(ctx context.Context, name string) ([]byte, error) {
	return getBaseline(ctx, s.db, name)
}

// GetFullFile returns baseline and ledger record read in one transaction
// Returns ErrFileNotFound if file is not tracked
func (s *Storage) GetFullFile(ctx context.Context, name string) (*models.FullFile, error) {
	var full models.FullFile

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rec, err := getRecord(ctx, tx, name)
		if err != nil {
			return err
		}
		content, err := getBaseline(ctx, tx, name)
		if err != nil {
			return err
		}
		full = models.FullFile{Record: *rec, Content: content}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &full, nil
}

// PublishUpdate stores patch, overwrites baseline, bumps ledger and prunes history
// in a single transaction
// Returns ErrVersionConflict if ledger version differs from ExpectedVersion
func (s *Storage) PublishUpdate(ctx context.Context, pub *storage.Publication) error {
	if pub == nil || pub.Patch == nil {
		return errors.New("publication without patch")
	}
	if pub.Patch.FileName != pub.Record.Name {
		return fmt.Errorf("patch for %s published with record for %s", pub.Patch.FileName, pub.Record.Name)
	}

	name := pub.Record.Name
	now := s.now()

	return s.withTx(ctx, func(tx *sql.Tx) error {
		// Оптимистичная проверка: ledger все еще на той версии, от которой считался патч
		res, err := tx.ExecContext(ctx, `
			UPDATE files
			SET major = ?, minor = ?, patch = ?, content_hash = ?, updated_at = ?
			WHERE name = ? AND major = ? AND minor = ? AND patch = ?
		`,
			pub.Record.Version.Major, pub.Record.Version.Minor, pub.Record.Version.Patch,
			pub.Record.Hash, now.Unix(),
			name, pub.ExpectedVersion.Major, pub.ExpectedVersion.Minor, pub.ExpectedVersion.Patch,
		)
		if err != nil {
			return fmt.Errorf("failed to bump ledger: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			if _, err := getRecord(ctx, tx, name); err != nil {
				return err
			}
			return fmt.Errorf("%w: %s is no longer at %s", storage.ErrVersionConflict, name, pub.ExpectedVersion)
		}

		baseline := pub.Baseline
		if baseline == nil {
			baseline = []byte{}
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE baselines SET content = ? WHERE file_name = ?`, baseline, name); err != nil {
			return fmt.Errorf("failed to overwrite baseline: %w", err)
		}

		if err := insertPatch(ctx, tx, pub.Patch, now.Unix()); err != nil {
			return err
		}

		if pub.KeepPatches > 0 {
			if err := prunePatches(ctx, tx, name, pub.KeepPatches); err != nil {
				return err
			}
		}

		return nil
	})
}

func getRecord(ctx context.Context, q queryer, name string) (*models.FileRecord, error) {
	rec := &models.FileRecord{Name: name}

	err := q.QueryRowContext(ctx, `
		SELECT major, minor, patch, content_hash
		FROM files
		WHERE name = ?
	`, name).Scan(&rec.Version.Major, &rec.Version.Minor, &rec.Version.Patch, &rec.Hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrFileNotFound, name)
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return rec, nil
}

func getBaseline(ctx context.Context, q queryer, name string) ([]byte, error) {
	var content []byte

	err := q.QueryRowContext(ctx, `SELECT content FROM baselines WHERE file_name = ?`, name).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrFileNotFound, name)
		}
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}

	if content == nil {
		content = []byte{}
	}
	return content, nil
}
