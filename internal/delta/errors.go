package delta

import "errors"

// Ошибки кодека и применения патча
var (
	// ErrMalformedPatch неизвестный тег инструкции, битый заголовок или поток сжатия
	ErrMalformedPatch = errors.New("malformed patch")

	// ErrTruncatedPatch заявленная длина выходит за пределы буфера
	ErrTruncatedPatch = errors.New("truncated patch")

	// ErrOversizedPatch распакованный поток больше допустимого предела
	ErrOversizedPatch = errors.New("oversized patch")

	// ErrOutOfRangeCopy инструкция COPY ссылается за пределы базы
	ErrOutOfRangeCopy = errors.New("copy out of range")
)
