package validation

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFileNameLen максимальная длина имени файла в байтах
	MaxFileNameLen = 255
)

// ErrInvalidFileName имя файла не прошло проверку
var ErrInvalidFileName = errors.New("invalid file name")

// ValidateFileName проверяет имя отслеживаемого файла.
// Имя - относительный путь через "/", без "..", без абсолютных путей,
// длина 1-255 байт, только печатные символы.
func ValidateFileName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: file name cannot be empty", ErrInvalidFileName)
	}

	if len(name) > MaxFileNameLen {
		return fmt.Errorf("%w: file name must not exceed %d bytes", ErrInvalidFileName, MaxFileNameLen)
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("%w: file name must be valid UTF-8", ErrInvalidFileName)
	}

	for _, r := range name {
		if !unicode.IsPrint(r) || r == '\\' {
			return fmt.Errorf("%w: file name contains forbidden character %q", ErrInvalidFileName, r)
		}
	}

	if strings.HasPrefix(name, "/") {
		return fmt.Errorf("%w: file name must be relative", ErrInvalidFileName)
	}

	if path.Clean(name) != name {
		return fmt.Errorf("%w: file name must be in canonical form", ErrInvalidFileName)
	}

	for _, part := range strings.Split(name, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("%w: file name must not contain %q", ErrInvalidFileName, part)
		}
	}

	return nil
}
