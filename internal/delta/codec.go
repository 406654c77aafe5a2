package delta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecodedSize предел распакованного размера патча по умолчанию (64 MiB)
const DefaultMaxDecodedSize int64 = 64 << 20

// Бинарный формат (до сжатия):
//
//	magic "DMP1"
//	COPY:   0x01 | offset uint64 BE | length uint64 BE
//	INSERT: 0x02 | length uint32 BE | data
//
// Весь поток сжимается zstd.
var magic = []byte("DMP1")

const (
	copyBodySize   = 16
	insertHeadSize = 4
)

// Codec сериализует скрипты и проверяет входящие патчи.
// Содержимое патча всегда трактуется как данные, ничего не исполняется.
type Codec struct {
	MaxDecodedSize int64
}

// NewCodec создает кодек с пределом распакованного размера.
// maxDecodedSize <= 0 означает DefaultMaxDecodedSize.
func NewCodec(maxDecodedSize int64) *Codec {
	if maxDecodedSize <= 0 {
		maxDecodedSize = DefaultMaxDecodedSize
	}
	return &Codec{MaxDecodedSize: maxDecodedSize}
}

// Marshal сериализует скрипт кодеком по умолчанию
func Marshal(s Script) ([]byte, error) {
	return NewCodec(DefaultMaxDecodedSize).Marshal(s)
}

// Unmarshal десериализует патч кодеком по умолчанию
func Unmarshal(data []byte) (Script, error) {
	return NewCodec(DefaultMaxDecodedSize).Unmarshal(data)
}

// Marshal кодирует скрипт в бинарный формат и сжимает его
func (c *Codec) Marshal(s Script) ([]byte, error) {
	raw, err := encodeRaw(s)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create compressor: %w", err)
	}
	defer func() {
		_ = enc.Close()
	}()

	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2+16)), nil
}

// Unmarshal распаковывает и разбирает патч.
// Возвращает ErrMalformedPatch, ErrTruncatedPatch или ErrOversizedPatch.
func (c *Codec) Unmarshal(data []byte) (Script, error) {
	raw, err := c.decompress(data)
	if err != nil {
		return nil, err
	}
	return decodeRaw(raw)
}

// decompress распаковывает поток, читая не больше MaxDecodedSize+1 байт
func (c *Codec) decompress(data []byte) ([]byte, error) {
	limit := c.MaxDecodedSize
	if limit <= 0 {
		limit = DefaultMaxDecodedSize
	}

	// Окно и буфер декодера ограничены тем же пределом, что и результат
	mem := uint64(max(limit, zstd.MinWindowSize))
	dec, err := zstd.NewReader(bytes.NewReader(data),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(mem),
		zstd.WithDecoderMaxWindow(mem),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPatch, err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(io.LimitReader(dec, limit+1))
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrOversizedPatch, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedPatch, err)
	}
	if int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: decoded stream exceeds %d bytes", ErrOversizedPatch, limit)
	}
	return raw, nil
}

func encodeRaw(s Script) ([]byte, error) {
	size := len(magic)
	for _, ins := range s {
		switch ins.Op {
		case OpCopy:
			size += 1 + copyBodySize
		case OpInsert:
			size += 1 + insertHeadSize + len(ins.Data)
		}
	}

	buf := make([]byte, 0, size)
	buf = append(buf, magic...)

	for i, ins := range s {
		switch ins.Op {
		case OpCopy:
			if ins.Length == 0 {
				return nil, fmt.Errorf("%w: instruction %d: empty copy", ErrMalformedPatch, i)
			}
			buf = append(buf, byte(OpCopy))
			buf = binary.BigEndian.AppendUint64(buf, ins.Offset)
			buf = binary.BigEndian.AppendUint64(buf, ins.Length)
		case OpInsert:
			if len(ins.Data) == 0 {
				return nil, fmt.Errorf("%w: instruction %d: empty insert", ErrMalformedPatch, i)
			}
			if uint64(len(ins.Data)) > math.MaxUint32 {
				return nil, fmt.Errorf("%w: instruction %d: insert of %d bytes", ErrOversizedPatch, i, len(ins.Data))
			}
			buf = append(buf, byte(OpInsert))
			buf = binary.BigEndian.AppendUint32(buf, uint32(len(ins.Data)))
			buf = append(buf, ins.Data...)
		default:
			return nil, fmt.Errorf("%w: instruction %d: unknown op %s", ErrMalformedPatch, i, ins.Op)
		}
	}

	return buf, nil
}

func decodeRaw(raw []byte) (Script, error) {
	if len(raw) < len(magic) || !bytes.Equal(raw[:len(magic)], magic) {
		return nil, fmt.Errorf("%w: bad header", ErrMalformedPatch)
	}

	// Пустой скрипт - Script{}, не nil
	script := Script{}
	pos := len(magic)
	for pos < len(raw) {
		tag := OpType(raw[pos])
		at := pos
		pos++

		switch tag {
		case OpCopy:
			if len(raw)-pos < copyBodySize {
				return nil, fmt.Errorf("%w: copy at byte %d needs %d bytes, %d left", ErrTruncatedPatch, at, copyBodySize, len(raw)-pos)
			}
			offset := binary.BigEndian.Uint64(raw[pos:])
			length := binary.BigEndian.Uint64(raw[pos+8:])
			pos += copyBodySize
			if length == 0 {
				return nil, fmt.Errorf("%w: empty copy at byte %d", ErrMalformedPatch, at)
			}
			script = append(script, Copy(offset, length))

		case OpInsert:
			if len(raw)-pos < insertHeadSize {
				return nil, fmt.Errorf("%w: insert header at byte %d", ErrTruncatedPatch, at)
			}
			n := uint64(binary.BigEndian.Uint32(raw[pos:]))
			pos += insertHeadSize
			if n == 0 {
				return nil, fmt.Errorf("%w: empty insert at byte %d", ErrMalformedPatch, at)
			}
			if n > uint64(len(raw)-pos) {
				return nil, fmt.Errorf("%w: insert at byte %d declares %d bytes, %d left", ErrTruncatedPatch, at, n, len(raw)-pos)
			}
			script = append(script, Insert(bytes.Clone(raw[pos:pos+int(n)])))
			pos += int(n)

		default:
			return nil, fmt.Errorf("%w: unknown instruction tag 0x%02x at byte %d", ErrMalformedPatch, byte(tag), at)
		}
	}

	return script, nil
}
