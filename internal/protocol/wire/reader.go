package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Reader walks a packet body front to back.
type Reader struct {
	buf []byte
	off int
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) VarInt() (int32, error) {
	v, n, err := ConsumeVarInt(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	r.off += n
	return v, nil
}

func (r *Reader) VarLong() (int64, error) {
	v, n, err := ConsumeVarLong(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	r.off += n
	return v, nil
}

func (r *Reader) fixed(width int, order Order) (uint64, error) {
	b, err := r.next(width)
	if err != nil {
		return 0, err
	}
	var bo binary.ByteOrder = binary.BigEndian
	if order == LittleEndian {
		bo = binary.LittleEndian
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(bo.Uint16(b)), nil
	case 4:
		return uint64(bo.Uint32(b)), nil
	default:
		return bo.Uint64(b), nil
	}
}

func (r *Reader) length(prefix Prefix) (int, error) {
	var n uint64
	switch prefix {
	case PrefixU8:
		v, err := r.fixed(1, BigEndian)
		if err != nil {
			return 0, err
		}
		n = v
	case PrefixU16:
		v, err := r.fixed(2, BigEndian)
		if err != nil {
			return 0, err
		}
		n = v
	case PrefixU32:
		v, err := r.fixed(4, BigEndian)
		if err != nil {
			return 0, err
		}
		n = v
	default:
		v, err := r.VarInt()
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, fmt.Errorf("%w: negative length %d", ErrPrefixOverflow, v)
		}
		n = uint64(v)
	}
	if n > uint64(r.Remaining()) {
		return 0, ErrShortBuffer
	}
	return int(n), nil
}

// Read decodes one value of kind using order for fixed-width numbers and prefix for
// strings and byte arrays.
func (r *Reader) Read(kind Kind, order Order, prefix Prefix) (Value, error) {
	switch kind {
	case KindBool:
		u, err := r.fixed(1, order)
		if err != nil {
			return Value{}, err
		}
		if u > 1 {
			return Value{}, ErrInvalidBool
		}
		return Bool(u == 1), nil
	case KindU8:
		u, err := r.fixed(1, order)
		return Value{Kind: kind, Uint: u}, err
	case KindI8:
		u, err := r.fixed(1, order)
		return Value{Kind: kind, Int: int64(int8(u))}, err
	case KindU16:
		u, err := r.fixed(2, order)
		return Value{Kind: kind, Uint: u}, err
	case KindI16:
		u, err := r.fixed(2, order)
		return Value{Kind: kind, Int: int64(int16(u))}, err
	case KindU32:
		u, err := r.fixed(4, order)
		return Value{Kind: kind, Uint: u}, err
	case KindI32:
		u, err := r.fixed(4, order)
		return Value{Kind: kind, Int: int64(int32(u))}, err
	case KindU64:
		u, err := r.fixed(8, order)
		return Value{Kind: kind, Uint: u}, err
	case KindI64:
		u, err := r.fixed(8, order)
		return Value{Kind: kind, Int: int64(u)}, err
	case KindF32:
		u, err := r.fixed(4, order)
		return Value{Kind: kind, Float: float64(math.Float32frombits(uint32(u)))}, err
	case KindF64:
		u, err := r.fixed(8, order)
		return Value{Kind: kind, Float: math.Float64frombits(u)}, err
	case KindVarInt:
		v, err := r.VarInt()
		return Value{Kind: kind, Int: int64(v)}, err
	case KindVarLong:
		v, err := r.VarLong()
		return Value{Kind: kind, Int: v}, err
	case KindString:
		n, err := r.length(prefix)
		if err != nil {
			return Value{}, err
		}
		b, err := r.next(n)
		if err != nil {
			return Value{}, err
		}
		return String(string(b)), nil
	case KindBytes:
		n, err := r.length(prefix)
		if err != nil {
			return Value{}, err
		}
		b, err := r.next(n)
		if err != nil {
			return Value{}, err
		}
		return Bytes(b), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}
