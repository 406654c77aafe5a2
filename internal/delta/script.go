// Package delta вычисляет, сериализует и применяет бинарные edit script'ы
// (последовательности инструкций Copy/Insert), превращающие базовую
// версию файла в целевую.
package delta

import "fmt"

// OpType дискриминант инструкции. Значения совпадают с тегами
// бинарного формата (см. codec.go).
type OpType byte

const (
	// OpCopy копирует Length байт из базы начиная с Offset
	OpCopy OpType = 0x01
	// OpInsert добавляет литеральные байты Data
	OpInsert OpType = 0x02
)

// String возвращает имя инструкции
func (op OpType) String() string {
	switch op {
	case OpCopy:
		return "COPY"
	case OpInsert:
		return "INSERT"
	default:
		return fmt.Sprintf("OP(0x%02x)", byte(op))
	}
}

// Instruction одна инструкция edit script.
// Для OpCopy используются Offset и Length, для OpInsert только Data.
type Instruction struct {
	Data   []byte // Data литеральные байты (OpInsert)
	Offset uint64 // Offset смещение в базе (OpCopy)
	Length uint64 // Length количество копируемых байт (OpCopy)
	Op     OpType // Op тип инструкции
}

// Copy создает инструкцию копирования из базы
func Copy(offset, length uint64) Instruction {
	return Instruction{Op: OpCopy, Offset: offset, Length: length}
}

// Insert создает инструкцию вставки литеральных байт
func Insert(data []byte) Instruction {
	return Instruction{Op: OpInsert, Data: data}
}

// Size возвращает количество байт, которое инструкция добавит в результат
func (i Instruction) Size() uint64 {
	if i.Op == OpInsert {
		return uint64(len(i.Data))
	}
	return i.Length
}

// Script упорядоченная последовательность инструкций.
// Script имеет смысл только вместе с конкретной базой, к которой он применяется.
type Script []Instruction

// TargetSize возвращает размер результата применения скрипта
func (s Script) TargetSize() uint64 {
	var total uint64
	for _, ins := range s {
		total += ins.Size()
	}
	return total
}

// Stats краткая статистика скрипта для логов и отчетов
type Stats struct {
	Copies      int    // количество инструкций COPY
	Inserts     int    // количество инструкций INSERT
	CopiedBytes uint64 // байт, взятых из базы
	LiteralSize uint64 // байт, переданных литералами
}

// Stats считает статистику скрипта
func (s Script) Stats() Stats {
	var st Stats
	for _, ins := range s {
		switch ins.Op {
		case OpCopy:
			st.Copies++
			st.CopiedBytes += ins.Length
		case OpInsert:
			st.Inserts++
			st.LiteralSize += uint64(len(ins.Data))
		}
	}
	return st
}
