// Package repository реализует сторону репозитория: регистрацию файлов,
// цикл update_file (diff относительно baseline, публикация патча, bump версии)
// и выдачу снимка ledger, патчей и полных файлов зеркалам.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/iudanet/deltamirror/internal/crypto"
	"github.com/iudanet/deltamirror/internal/delta"
	"github.com/iudanet/deltamirror/internal/ledger"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/storage"
	"github.com/iudanet/deltamirror/internal/validation"
)

// ErrNoChange содержимое файла совпадает с опубликованным
var ErrNoChange = errors.New("no change")

// DefaultKeepPatches сколько патчей на файл хранится по умолчанию
const DefaultKeepPatches = 32

//go:generate moq -out live_mock.go . LiveSource

// LiveSource источник актуального содержимого отслеживаемых файлов
type LiveSource interface {
	Read(name string) ([]byte, error)
}

// Options параметры сервиса
type Options struct {
	// WindowSize размер окна энкодера (0 - delta.DefaultWindowSize)
	WindowSize int
	// KeepPatches предел истории патчей на файл (0 - без ограничения)
	KeepPatches int
	// MaxPatchSize предел распакованного размера патча (0 - delta.DefaultMaxDecodedSize)
	MaxPatchSize int64
}

// Service сервис репозитория
type Service struct {
	store   storage.Storage
	live    LiveSource
	encoder *delta.Encoder
	codec   *delta.Codec
	logger  *slog.Logger
	keep    int
	mu      sync.Mutex // mu сериализует циклы update_file
}

// UpdateResult результат update_file для одного файла в пакетном обновлении
type UpdateResult struct {
	Err     error
	Record  *models.FileRecord
	Name    string
	Changed bool
}

// NewService создает сервис репозитория
func NewService(store storage.Storage, live LiveSource, opts Options, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		live:    live,
		encoder: delta.NewEncoder(opts.WindowSize),
		codec:   delta.NewCodec(opts.MaxPatchSize),
		logger:  logger,
		keep:    opts.KeepPatches,
	}
}

// RegisterFile начинает отслеживание файла: версия 1.0.0, baseline = текущее содержимое
func (s *Service) RegisterFile(ctx context.Context, name string) (*models.FileRecord, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}

	content, err := s.live.Read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read live file: %w", err)
	}

	snap, err := s.LedgerSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := snap.Register(name, crypto.ContentHash(content))
	if err != nil {
		return nil, err
	}

	// CreateFile повторно проверяет уникальность в транзакции
	if err := s.store.CreateFile(ctx, &rec, content); err != nil {
		return nil, fmt.Errorf("failed to register file: %w", err)
	}

	s.logger.Info("File registered",
		"file", name,
		"version", rec.Version.String(),
		"size", len(content))

	return &rec, nil
}

// UpdateFile публикует новое содержимое файла.
// Если содержимое не изменилось, возвращает текущую запись и ErrNoChange.
func (s *Service) UpdateFile(ctx context.Context, name string) (*models.FileRecord, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.GetRecord(ctx, name)
	if err != nil {
		return nil, err
	}

	content, err := s.live.Read(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read live file: %w", err)
	}

	l, err := ledger.FromRecords([]models.FileRecord{*rec})
	if err != nil {
		return nil, err
	}
	next, changed, err := l.Update(name, crypto.ContentHash(content))
	if err != nil {
		return nil, err
	}
	if !changed {
		return rec, ErrNoChange
	}

	baseline, err := s.store.GetBaseline(ctx, name)
	if err != nil {
		return nil, err
	}

	script := s.encoder.Encode(baseline, content)
	blob, err := s.codec.Marshal(script)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize patch: %w", err)
	}

	pub := &storage.Publication{
		Patch: &models.Patch{
			FileName:      name,
			BaseVersion:   rec.Version,
			TargetVersion: next.Version,
			TargetHash:    next.Hash,
			Script:        blob,
		},
		Baseline:        content,
		Record:          next,
		ExpectedVersion: rec.Version,
		KeepPatches:     s.keep,
	}

	if err := s.store.PublishUpdate(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to publish update: %w", err)
	}

	stats := script.Stats()
	s.logger.Info("Patch published",
		"file", name,
		"base", rec.Version.String(),
		"target", next.Version.String(),
		"copies", stats.Copies,
		"inserts", stats.Inserts,
		"literal_bytes", stats.LiteralSize,
		"patch_bytes", len(blob),
		"file_bytes", len(content))

	return &next, nil
}

// UpdateAll выполняет update_file для каждого отслеживаемого файла.
// Ошибка одного файла не мешает остальным.
func (s *Service) UpdateAll(ctx context.Context) ([]UpdateResult, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	results := make([]UpdateResult, 0, len(records))
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := UpdateResult{Name: rec.Name}
		updated, err := s.UpdateFile(ctx, rec.Name)
		switch {
		case errors.Is(err, ErrNoChange):
			res.Record = updated
		case err != nil:
			res.Err = err
			s.logger.Error("Update failed", "file", rec.Name, "error", err)
		default:
			res.Record = updated
			res.Changed = true
		}
		results = append(results, res)
	}

	return results, nil
}

// LedgerSnapshot возвращает снимок ledger репозитория
func (s *Service) LedgerSnapshot(ctx context.Context) (*ledger.Ledger, error) {
	records, err := s.store.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return ledger.FromRecords(records)
}

// GetPatch возвращает патч с указанной базовой версией.
// ErrUnknownFile для неотслеживаемых имен, ErrPatchNotFound если история его не хранит.
func (s *Service) GetPatch(ctx context.Context, name string, base models.Version) (*models.Patch, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}

	if _, err := s.store.GetRecord(ctx, name); err != nil {
		return nil, err
	}

	return s.store.GetPatch(ctx, name, base)
}

// GetFullFile возвращает опубликованное содержимое файла вместе с записью ledger
func (s *Service) GetFullFile(ctx context.Context, name string) (*models.FullFile, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}
	return s.store.GetFullFile(ctx, name)
}

// History возвращает метаданные сохраненных патчей файла
func (s *Service) History(ctx context.Context, name string) ([]models.PatchInfo, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}

	if _, err := s.store.GetRecord(ctx, name); err != nil {
		return nil, err
	}

	return s.store.ListPatches(ctx, name)
}
