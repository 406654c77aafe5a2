// Package ledger реализует in-memory ledger файлов: отображение имени файла
// на его версию и хеш содержимого. Используется как снимок репозитория,
// передаваемый зеркалам, и зеркалом при сверке версий.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iudanet/deltamirror/internal/models"
)

var (
	// ErrUnknownFile файл отсутствует в ledger
	ErrUnknownFile = errors.New("unknown file")
	// ErrAlreadyRegistered файл уже зарегистрирован
	ErrAlreadyRegistered = errors.New("file already registered")
)

// Ledger отображение имя файла -> FileRecord.
// Не потокобезопасен: владелец отвечает за синхронизацию.
type Ledger struct {
	records map[string]models.FileRecord
}

// FromRecords строит ledger из списка записей.
// Повторяющееся имя - ошибка ErrAlreadyRegistered.
func FromRecords(records []models.FileRecord) (*Ledger, error) {
	l := &Ledger{records: make(map[string]models.FileRecord, len(records))}
	for _, rec := range records {
		if _, ok := l.records[rec.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, rec.Name)
		}
		l.records[rec.Name] = rec
	}
	return l, nil
}

// Register добавляет файл с начальной версией 1.0.0
func (l *Ledger) Register(name, hash string) (models.FileRecord, error) {
	if _, ok := l.records[name]; ok {
		return models.FileRecord{}, fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	rec := models.FileRecord{Name: name, Hash: hash, Version: models.InitialVersion}
	l.records[name] = rec
	return rec, nil
}

// RecordFor возвращает запись файла
func (l *Ledger) RecordFor(name string) (models.FileRecord, error) {
	rec, ok := l.records[name]
	if !ok {
		return models.FileRecord{}, fmt.Errorf("%w: %s", ErrUnknownFile, name)
	}
	return rec, nil
}

// Has сообщает, что файл отслеживается
func (l *Ledger) Has(name string) bool {
	_, ok := l.records[name]
	return ok
}

// Records возвращает записи, отсортированные по имени
func (l *Ledger) Records() []models.FileRecord {
	out := make([]models.FileRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Bump увеличивает patch-компонент версии файла.
// При переполнении запись не меняется.
func (l *Ledger) Bump(name string) (models.Version, error) {
	rec, err := l.RecordFor(name)
	if err != nil {
		return models.Version{}, err
	}

	next, err := rec.Version.Next()
	if err != nil {
		return rec.Version, fmt.Errorf("failed to bump %s: %w", name, err)
	}
	rec.Version = next
	l.records[name] = rec
	return next, nil
}

// Update фиксирует новое содержимое файла.
// Версия растет тогда и только тогда, когда хеш изменился.
func (l *Ledger) Update(name, hash string) (models.FileRecord, bool, error) {
	rec, err := l.RecordFor(name)
	if err != nil {
		return models.FileRecord{}, false, err
	}
	if rec.Hash == hash {
		return rec, false, nil
	}

	next, err := l.Bump(name)
	if err != nil {
		return rec, false, err
	}
	rec.Hash, rec.Version = hash, next
	l.records[name] = rec
	return rec, true, nil
}
