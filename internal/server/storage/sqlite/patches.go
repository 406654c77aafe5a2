package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/storage"
)

// GetPatch retrieves the patch whose base version equals base
// Returns ErrPatchNotFound if history no longer holds it
func (s *Storage) GetPatch(ctx context.Context, name string, base models.Version) (*models.Patch, error) {
	p := &models.Patch{FileName: name, BaseVersion: base}
	var createdAt int64

	err := s.db.QueryRowContext(ctx, `
		SELECT target_major, target_minor, target_patch, target_hash, script, created_at
		FROM patches
		WHERE file_name = ? AND base_major = ? AND base_minor = ? AND base_patch = ?
	`, name, base.Major, base.Minor, base.Patch).Scan(
		&p.TargetVersion.Major,
		&p.TargetVersion.Minor,
		&p.TargetVersion.Patch,
		&p.TargetHash,
		&p.Script,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s from %s", storage.ErrPatchNotFound, name, base)
		}
		return nil, fmt.Errorf("failed to get patch: %w", err)
	}

	p.CreatedAt = unixToTime(createdAt)
	return p, nil
}

// ListPatches returns patch metadata for a file, oldest first
// Returns empty slice if history is empty
func (s *Storage) ListPatches(ctx context.Context, name string) (infos []models.PatchInfo, err error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT base_major, base_minor, base_patch,
		       target_major, target_minor, target_patch,
		       target_hash, length(script), created_at
		FROM patches
		WHERE file_name = ?
		ORDER BY target_major ASC, target_minor ASC, target_patch ASC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query patches: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	infos = []models.PatchInfo{}
	for rows.Next() {
		info := models.PatchInfo{FileName: name}
		var createdAt int64

		if err := rows.Scan(
			&info.BaseVersion.Major, &info.BaseVersion.Minor, &info.BaseVersion.Patch,
			&info.TargetVersion.Major, &info.TargetVersion.Minor, &info.TargetVersion.Patch,
			&info.TargetHash, &info.Size, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan patch: %w", err)
		}

		info.CreatedAt = unixToTime(createdAt)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return infos, nil
}

func insertPatch(ctx context.Context, tx *sql.Tx, p *models.Patch, createdAt int64) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO patches (
			file_name,
			base_major, base_minor, base_patch,
			target_major, target_minor, target_patch,
			target_hash, script, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.FileName,
		p.BaseVersion.Major, p.BaseVersion.Minor, p.BaseVersion.Patch,
		p.TargetVersion.Major, p.TargetVersion.Minor, p.TargetVersion.Patch,
		p.TargetHash, p.Script, createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert patch: %w", err)
	}
	return nil
}

// prunePatches оставляет keep самых новых патчей файла
func prunePatches(ctx context.Context, tx *sql.Tx, name string, keep int) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM patches
		WHERE file_name = ? AND rowid NOT IN (
			SELECT rowid FROM patches
			WHERE file_name = ?
			ORDER BY target_major DESC, target_minor DESC, target_patch DESC
			LIMIT ?
		)
	`, name, name, keep)
	if err != nil {
		return fmt.Errorf("failed to prune patches: %w", err)
	}
	return nil
}
