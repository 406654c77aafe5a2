package delta

import "fmt"

// maxPrealloc верхняя граница предварительного выделения буфера результата
const maxPrealloc = 256 << 20

// Apply восстанавливает целевую последовательность из base и скрипта.
// Инструкции ссылаются только на base, поэтому применение - один линейный проход.
// Результат собирается в отдельном буфере; при ошибке ничего не возвращается.
func Apply(base []byte, s Script) ([]byte, error) {
	var size uint64
	for i, ins := range s {
		switch ins.Op {
		case OpCopy:
			end := ins.Offset + ins.Length
			if end < ins.Offset || end > uint64(len(base)) {
				return nil, fmt.Errorf("%w: instruction %d copies [%d, %d+%d) from base of %d bytes",
					ErrOutOfRangeCopy, i, ins.Offset, ins.Offset, ins.Length, len(base))
			}
			size += ins.Length
		case OpInsert:
			size += uint64(len(ins.Data))
		default:
			return nil, fmt.Errorf("%w: instruction %d: unknown op %s", ErrMalformedPatch, i, ins.Op)
		}
	}

	if size > maxPrealloc {
		size = maxPrealloc
	}
	out := make([]byte, 0, size)
	for _, ins := range s {
		if ins.Op == OpCopy {
			out = append(out, base[ins.Offset:ins.Offset+ins.Length]...)
			continue
		}
		out = append(out, ins.Data...)
	}

	return out, nil
}
