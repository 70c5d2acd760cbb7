package frame

import (
	"errors"
	"io"

	"github.com/danmuck/verbridge/internal/protocol/wire"
)

var (
	ErrShortFrame       = errors.New("frame: short frame")
	ErrFrameTooLarge    = errors.New("frame: frame too large")
	ErrNegativeLength   = errors.New("frame: negative length")
	ErrLengthPrefixSize = errors.New("frame: length prefix too long")
)

// Limits constrains frame decode/encode memory use.
type Limits struct {
	MaxFrameBytes int
}

func DefaultLimits() Limits {
	return Limits{
		MaxFrameBytes: 2 * 1024 * 1024,
	}
}

// ReadFrame reads one varint length-prefixed frame. A clean EOF before the first
// prefix byte is returned as io.EOF.
func ReadFrame(r io.ByteReader, limits Limits) ([]byte, error) {
	n, err := readLength(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if limits.MaxFrameBytes > 0 && int(n) > limits.MaxFrameBytes {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, n)
	if rr, ok := r.(io.Reader); ok {
		if _, err := io.ReadFull(rr, payload); err != nil {
			return nil, ErrShortFrame
		}
		return payload, nil
	}
	for i := range payload {
		b, err := r.ReadByte()
		if err != nil {
			return nil, ErrShortFrame
		}
		payload[i] = b
	}
	return payload, nil
}

func readLength(r io.ByteReader) (int32, error) {
	var buf [wire.MaxVarIntLen]byte
	for i := 0; i < wire.MaxVarIntLen; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if i == 0 && errors.Is(err, io.EOF) {
				return 0, io.EOF
			}
			return 0, ErrShortFrame
		}
		buf[i] = b
		if b&0x80 == 0 {
			v, _, err := wire.ConsumeVarInt(buf[:i+1])
			return v, err
		}
	}
	return 0, ErrLengthPrefixSize
}

// WriteFrame writes payload with its varint length prefix in a single Write.
func WriteFrame(w io.Writer, payload []byte, limits Limits) error {
	if limits.MaxFrameBytes > 0 && len(payload) > limits.MaxFrameBytes {
		return ErrFrameTooLarge
	}
	buf := wire.AppendVarInt(make([]byte, 0, len(payload)+wire.MaxVarIntLen), int32(len(payload)))
	buf = append(buf, payload...)
	_, err := w.Write(buf)
	return err
}
