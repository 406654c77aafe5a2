package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Staged новое содержимое файла, записанное во временный файл и ожидающее
// фиксации. Используется для атомарной пары (содержимое, запись ledger):
//
//	st, _ := dir.Stage(name, data)
//	err := db.Update(func(tx) error { put(record); return st.Promote() })
//	if err != nil { st.Rollback() } else { st.Finish() }
type Staged struct {
	name     string
	target   string
	tmp      string
	backup   string
	hadPrev  bool
	promoted bool
	done     bool
}

// Stage записывает data во временный файл рядом с целевым
func (d *Dir) Stage(name string, data []byte) (*Staged, error) {
	p, err := d.Path(name)
	if err != nil {
		return nil, err
	}

	tmp, err := writeTemp(p, data)
	if err != nil {
		return nil, err
	}

	return &Staged{name: name, target: p, tmp: tmp, backup: p + backupSuffix}, nil
}

// Name имя файла
func (s *Staged) Name() string {
	return s.name
}

// Promote ставит новое содержимое на место целевого файла.
// Прежнее содержимое сохраняется в резервной копии до Finish или Rollback.
func (s *Staged) Promote() error {
	if s.done {
		return errors.New("staged file already finished")
	}

	if err := os.Rename(s.target, s.backup); err == nil {
		s.hadPrev = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to back up %s: %w", s.name, err)
	}

	if err := os.Rename(s.tmp, s.target); err != nil {
		if s.hadPrev {
			_ = os.Rename(s.backup, s.target)
			s.hadPrev = false
		}
		return fmt.Errorf("failed to promote %s: %w", s.name, err)
	}

	s.promoted = true
	return nil
}

// Rollback возвращает файл в состояние до Stage
func (s *Staged) Rollback() error {
	if s.done {
		return nil
	}
	s.done = true

	_ = os.Remove(s.tmp)
	if !s.promoted {
		return nil
	}

	if s.hadPrev {
		if err := os.Rename(s.backup, s.target); err != nil {
			return fmt.Errorf("failed to restore %s: %w", s.name, err)
		}
		return nil
	}

	// Файла не было: убираем то, что поставил Promote
	if err := os.Remove(s.target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", s.name, err)
	}
	return nil
}

// Finish удаляет резервную копию после успешной фиксации
func (s *Staged) Finish() error {
	if s.done {
		return nil
	}
	s.done = true

	if s.hadPrev {
		if err := os.Remove(s.backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove backup of %s: %w", s.name, err)
		}
	}
	return nil
}

// Discard удаляет временный файл, не трогая целевой
func (s *Staged) Discard() {
	if s.done {
		return
	}
	s.done = true
	_ = os.Remove(s.tmp)
}
