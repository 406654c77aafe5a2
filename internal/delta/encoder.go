package delta

import (
	"bytes"
	"sort"
)

const (
	// DefaultWindowSize размер окна сопоставления по умолчанию
	DefaultWindowSize = 64

	// hashBase основание полиномиального rolling hash (mod 2^32)
	hashBase uint32 = 257

	// maxCandidates сколько смещений с одинаковым checksum проверяем побайтно.
	// Ограничивает работу на вырожденных данных (например, длинные серии нулей).
	maxCandidates = 32
)

// Encoder строит edit script скользящим окном фиксированного размера.
// Окна базы индексируются по rolling checksum, каждое совпадение
// checksum перепроверяется побайтным сравнением.
type Encoder struct {
	WindowSize int
}

// NewEncoder создает Encoder с указанным размером окна.
// windowSize <= 0 означает DefaultWindowSize.
func NewEncoder(windowSize int) *Encoder {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	return &Encoder{WindowSize: windowSize}
}

// Encode строит скрипт base -> target с окном по умолчанию
func Encode(base, target []byte) Script {
	return NewEncoder(DefaultWindowSize).Encode(base, target)
}

// Encode строит скрипт, превращающий base в target.
// Детерминирован и всегда завершается; Apply(base, Encode(base, target)) == target.
func (e *Encoder) Encode(base, target []byte) Script {
	if len(target) == 0 {
		return nil
	}
	if bytes.Equal(base, target) {
		return Script{Copy(0, uint64(len(target)))}
	}

	w := e.WindowSize
	if w <= 0 {
		w = DefaultWindowSize
	}
	if len(base) < w || len(target) < w {
		// Ни одно окно не может совпасть - весь target одним литералом
		return Script{Insert(bytes.Clone(target))}
	}

	pow := windowPower(w)
	idx := indexWindows(base, w, pow)

	var script Script
	litStart := 0 // начало текущей серии литералов в target
	cursor := 0   // позиция в base после последнего совпадения
	j := 0
	h := checksum(target[:w])

	for j+w <= len(target) {
		if off, ok := idx.find(base, target[j:j+w], h, cursor); ok {
			// Жадно расширяем совпадение за пределы окна
			n := w
			for off+n < len(base) && j+n < len(target) && base[off+n] == target[j+n] {
				n++
			}

			script = appendInsert(script, target[litStart:j])
			script = appendCopy(script, uint64(off), uint64(n))

			j += n
			litStart = j
			cursor = off + n
			if j+w <= len(target) {
				h = checksum(target[j : j+w])
			}
			continue
		}

		if j+w < len(target) {
			h = roll(h, target[j], target[j+w], pow)
		}
		j++
	}

	return appendInsert(script, target[litStart:])
}

// appendInsert добавляет литерал, склеивая его с предыдущим INSERT
func appendInsert(s Script, data []byte) Script {
	if len(data) == 0 {
		return s
	}
	if n := len(s); n > 0 && s[n-1].Op == OpInsert {
		s[n-1].Data = append(s[n-1].Data, data...)
		return s
	}
	return append(s, Insert(bytes.Clone(data)))
}

// appendCopy добавляет COPY, склеивая его с предыдущим, если диапазоны смежные
func appendCopy(s Script, offset, length uint64) Script {
	if n := len(s); n > 0 && s[n-1].Op == OpCopy && s[n-1].Offset+s[n-1].Length == offset {
		s[n-1].Length += length
		return s
	}
	return append(s, Copy(offset, length))
}

// windowIndex отображает checksum окна на возрастающий список смещений в базе
type windowIndex map[uint32][]int

func indexWindows(base []byte, w int, pow uint32) windowIndex {
	idx := make(windowIndex, len(base)-w+1)
	h := checksum(base[:w])
	for off := 0; ; off++ {
		idx[h] = append(idx[h], off)
		if off+w >= len(base) {
			break
		}
		h = roll(h, base[off], base[off+w], pow)
	}
	return idx
}

// find ищет в базе окно, побайтно равное window.
// Предпочитает первое смещение не меньше cursor, затем остальные по кругу.
func (idx windowIndex) find(base, window []byte, h uint32, cursor int) (int, bool) {
	offsets := idx[h]
	if len(offsets) == 0 {
		return 0, false
	}

	start := sort.SearchInts(offsets, cursor)
	for k := 0; k < len(offsets) && k < maxCandidates; k++ {
		off := offsets[(start+k)%len(offsets)]
		if bytes.Equal(base[off:off+len(window)], window) {
			return off, true
		}
	}
	return 0, false
}

func checksum(data []byte) uint32 {
	var h uint32
	for _, b := range data {
		h = h*hashBase + uint32(b)
	}
	return h
}

// roll сдвигает окно на один байт: убирает out слева, добавляет in справа
func roll(h uint32, out, in byte, pow uint32) uint32 {
	return (h-uint32(out)*pow)*hashBase + uint32(in)
}

// windowPower возвращает hashBase^(w-1) mod 2^32
func windowPower(w int) uint32 {
	pow := uint32(1)
	for i := 1; i < w; i++ {
		pow *= hashBase
	}
	return pow
}
