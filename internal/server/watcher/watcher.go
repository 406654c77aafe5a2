// Package watcher публикует новые версии при изменении живых файлов
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/iudanet/deltamirror/internal/ledger"
	"github.com/iudanet/deltamirror/internal/models"
	"github.com/iudanet/deltamirror/internal/server/repository"
	"github.com/iudanet/deltamirror/internal/workspace"
)

// DefaultDebounce пауза после последнего события перед публикацией
const DefaultDebounce = 500 * time.Millisecond

//go:generate moq -out updater_mock.go . Updater

// Updater выполняет update_file для одного файла
type Updater interface {
	UpdateFile(ctx context.Context, name string) (*models.FileRecord, error)
}

// Watcher следит за каталогом живых файлов и вызывает update_file
// для измененных отслеживаемых файлов
type Watcher struct {
	dir      *workspace.Dir
	updater  Updater
	logger   *slog.Logger
	debounce time.Duration
}

// New создает Watcher. debounce <= 0 означает DefaultDebounce.
func New(dir *workspace.Dir, updater Updater, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		updater:  updater,
		logger:   logger,
		debounce: debounce,
	}
}

// Run блокируется до отмены ctx
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = fw.Close()
	}()

	if err := addTree(fw, w.dir.Root()); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	w.logger.Info("Watching live files", "dir", w.dir.Root(), "debounce", w.debounce)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Новые подкаталоги тоже отслеживаются
			if event.Op&fsnotify.Create != 0 && isDir(event.Name) {
				if err := addTree(fw, event.Name); err != nil {
					w.logger.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
				}
				continue
			}

			name, err := w.dir.NameOf(event.Name)
			if err != nil {
				continue
			}
			pending[name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]struct{})
		}
	}
}

// flush публикует накопленные изменения в порядке имен
func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rec, err := w.updater.UpdateFile(ctx, name)
		switch {
		case err == nil:
			w.logger.Info("Published new version", "file", name, "version", rec.Version.String())
		case errors.Is(err, repository.ErrNoChange):
			w.logger.Debug("Live file unchanged", "file", name)
		case errors.Is(err, ledger.ErrUnknownFile):
			w.logger.Debug("Ignoring untracked file", "file", name)
		default:
			w.logger.Error("Failed to publish update", "file", name, "error", err)
		}
	}
}

// addTree добавляет root и все вложенные каталоги
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
