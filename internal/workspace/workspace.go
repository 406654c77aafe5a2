// Package workspace хранит содержимое отслеживаемых файлов в каталоге на диске.
// Все имена проверяются и разрешаются строго внутри корня.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iudanet/deltamirror/internal/validation"
)

const (
	tmpSuffix    = ".dm-tmp"
	backupSuffix = ".dm-bak"

	filePerm = 0o644
	dirPerm  = 0o755
)

// ErrNotExist файл отсутствует в рабочем каталоге
var ErrNotExist = errors.New("file does not exist")

// Dir рабочий каталог с файлами
type Dir struct {
	root string
}

// New открывает рабочий каталог, создавая его при необходимости
func New(root string) (*Dir, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create workspace root: %w", err)
	}
	return &Dir{root: abs}, nil
}

// Root возвращает абсолютный путь корня
func (d *Dir) Root() string {
	return d.root
}

// Path возвращает путь файла на диске
func (d *Dir) Path(name string) (string, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return "", err
	}

	p := filepath.Join(d.root, filepath.FromSlash(name))
	rel, err := filepath.Rel(d.root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes workspace", validation.ErrInvalidFileName, name)
	}
	return p, nil
}

// Read читает содержимое файла
func (d *Dir) Read(name string) ([]byte, error) {
	p, err := d.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// Exists сообщает, что файл есть на диске
func (d *Dir) Exists(name string) (bool, error) {
	p, err := d.Path(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(p)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", name, err)
	}
}

// WriteAtomic записывает файл через временный файл и rename
func (d *Dir) WriteAtomic(name string, data []byte) error {
	p, err := d.Path(name)
	if err != nil {
		return err
	}

	tmp, err := writeTemp(p, data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// List возвращает отсортированные имена файлов в каталоге
// (служебные временные и резервные файлы пропускаются)
func (d *Dir) List() ([]string, error) {
	var names []string

	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || isServiceFile(p) {
			return nil
		}

		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// NameOf возвращает имя файла для пути p внутри корня.
// Служебные временные и резервные файлы именами не считаются.
func (d *Dir) NameOf(p string) (string, error) {
	rel, err := filepath.Rel(d.root, p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", validation.ErrInvalidFileName, err)
	}
	name := filepath.ToSlash(rel)
	if isServiceFile(name) {
		return "", fmt.Errorf("%w: %s is a service file", validation.ErrInvalidFileName, name)
	}
	if err := validation.ValidateFileName(name); err != nil {
		return "", err
	}
	return name, nil
}

// writeTemp пишет data во временный файл рядом с target и возвращает его путь
func writeTemp(target string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*"+tmpSuffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	fail := func(step string, err error) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to %s temp file: %w", step, err)
	}

	if err := tmp.Chmod(filePerm); err != nil {
		return fail("chmod", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return tmpPath, nil
}

func isServiceFile(p string) bool {
	return strings.HasSuffix(p, tmpSuffix) || strings.HasSuffix(p, backupSuffix)
}
