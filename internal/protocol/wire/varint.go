package wire

import (
	"encoding/binary"
	"math"
)

const (
	MaxVarIntLen  = 5
	MaxVarLongLen = 10
)

// AppendVarInt writes v as LEB128 over its 32-bit two's complement form.
func AppendVarInt(buf []byte, v int32) []byte {
	return binary.AppendUvarint(buf, uint64(uint32(v)))
}

// AppendVarLong writes v as LEB128 over its 64-bit two's complement form.
func AppendVarLong(buf []byte, v int64) []byte {
	return binary.AppendUvarint(buf, uint64(v))
}

// VarIntLen is the encoded size of v.
func VarIntLen(v int32) int {
	n := 1
	for u := uint32(v); u >= 0x80; u >>= 7 {
		n++
	}
	return n
}

// ConsumeVarInt decodes a varint from the front of b and returns bytes used.
func ConsumeVarInt(b []byte) (int32, int, error) {
	u, n := binary.Uvarint(b)
	switch {
	case n == 0:
		return 0, 0, ErrShortBuffer
	case n < 0 || n > MaxVarIntLen || u > math.MaxUint32:
		return 0, 0, ErrVarIntTooLong
	}
	return int32(uint32(u)), n, nil
}

// ConsumeVarLong decodes a varlong from the front of b and returns bytes used.
func ConsumeVarLong(b []byte) (int64, int, error) {
	u, n := binary.Uvarint(b)
	switch {
	case n == 0:
		return 0, 0, ErrShortBuffer
	case n < 0 || n > MaxVarLongLen:
		return 0, 0, ErrVarIntTooLong
	}
	return int64(u), n, nil
}
