package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Append encodes v onto buf. v.Kind must equal kind.
func Append(buf []byte, kind Kind, order Order, prefix Prefix, v Value) ([]byte, error) {
	if v.Kind != kind {
		return buf, fmt.Errorf("%w: got %s want %s", ErrKindMismatch, v.Kind, kind)
	}
	if !v.Fits() {
		return buf, fmt.Errorf("%w: %#v", ErrValueOutOfRange, v)
	}
	switch kind {
	case KindBool:
		if v.Bool {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case KindU8:
		return append(buf, byte(v.Uint)), nil
	case KindI8:
		return append(buf, byte(int8(v.Int))), nil
	case KindU16:
		return appendFixed(buf, 2, order, v.Uint), nil
	case KindI16:
		return appendFixed(buf, 2, order, uint64(uint16(int16(v.Int)))), nil
	case KindU32:
		return appendFixed(buf, 4, order, v.Uint), nil
	case KindI32:
		return appendFixed(buf, 4, order, uint64(uint32(int32(v.Int)))), nil
	case KindU64:
		return appendFixed(buf, 8, order, v.Uint), nil
	case KindI64:
		return appendFixed(buf, 8, order, uint64(v.Int)), nil
	case KindF32:
		return appendFixed(buf, 4, order, uint64(math.Float32bits(float32(v.Float)))), nil
	case KindF64:
		return appendFixed(buf, 8, order, math.Float64bits(v.Float)), nil
	case KindVarInt:
		return AppendVarInt(buf, int32(v.Int)), nil
	case KindVarLong:
		return AppendVarLong(buf, v.Int), nil
	case KindString:
		return appendPrefixed(buf, prefix, []byte(v.String))
	case KindBytes:
		return appendPrefixed(buf, prefix, v.Bytes)
	}
	return buf, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

func appendFixed(buf []byte, width int, order Order, u uint64) []byte {
	var bo binary.AppendByteOrder = binary.BigEndian
	if order == LittleEndian {
		bo = binary.LittleEndian
	}
	switch width {
	case 2:
		return bo.AppendUint16(buf, uint16(u))
	case 4:
		return bo.AppendUint32(buf, uint32(u))
	default:
		return bo.AppendUint64(buf, u)
	}
}

func appendPrefixed(buf []byte, prefix Prefix, payload []byte) ([]byte, error) {
	n := uint64(len(payload))
	if n > prefix.Max() {
		return buf, fmt.Errorf("%w: %d > %d (%s)", ErrPrefixOverflow, n, prefix.Max(), prefix)
	}
	switch prefix {
	case PrefixU8:
		buf = append(buf, byte(n))
	case PrefixU16:
		buf = binary.BigEndian.AppendUint16(buf, uint16(n))
	case PrefixU32:
		buf = binary.BigEndian.AppendUint32(buf, uint32(n))
	default:
		buf = AppendVarInt(buf, int32(n))
	}
	return append(buf, payload...), nil
}
