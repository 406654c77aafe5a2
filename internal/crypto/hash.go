package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// ErrHashMismatch дайджест содержимого не совпадает с ожидаемым
var ErrHashMismatch = errors.New("content hash mismatch")

// DigestSize длина hex-представления дайджеста
const DigestSize = blake2b.Size256 * 2

// ContentHash вычисляет дайджест содержимого файла (BLAKE2b-256, hex).
// Используется одинаково репозиторием и зеркалом.
func ContentHash(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// VerifyContent проверяет, что содержимое соответствует ожидаемому дайджесту
func VerifyContent(content []byte, expected string) error {
	if expected == "" {
		return fmt.Errorf("%w: expected hash is empty", ErrHashMismatch)
	}

	actual := ContentHash(content)
	if actual != expected {
		return fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, short(actual), short(expected))
	}

	return nil
}

// short сокращает дайджест для сообщений об ошибках
func short(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
