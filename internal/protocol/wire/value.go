package wire

import (
	"bytes"
	"fmt"
	"math"
)

// Value is one decoded field value. Only the slot matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Uint   uint64
	Float  float64
	String string
	Bytes  []byte
}

func Bool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func U8(v uint8) Value      { return Value{Kind: KindU8, Uint: uint64(v)} }
func I8(v int8) Value       { return Value{Kind: KindI8, Int: int64(v)} }
func U16(v uint16) Value    { return Value{Kind: KindU16, Uint: uint64(v)} }
func I16(v int16) Value     { return Value{Kind: KindI16, Int: int64(v)} }
func U32(v uint32) Value    { return Value{Kind: KindU32, Uint: uint64(v)} }
func I32(v int32) Value     { return Value{Kind: KindI32, Int: int64(v)} }
func U64(v uint64) Value    { return Value{Kind: KindU64, Uint: v} }
func I64(v int64) Value     { return Value{Kind: KindI64, Int: v} }
func F32(v float32) Value   { return Value{Kind: KindF32, Float: float64(v)} }
func F64(v float64) Value   { return Value{Kind: KindF64, Float: v} }
func VarInt(v int32) Value  { return Value{Kind: KindVarInt, Int: int64(v)} }
func VarLong(v int64) Value { return Value{Kind: KindVarLong, Int: v} }
func String(v string) Value { return Value{Kind: KindString, String: v} }

// Bytes copies v.
func Bytes(v []byte) Value {
	buf := make([]byte, len(v))
	copy(buf, v)
	return Value{Kind: KindBytes, Bytes: buf}
}

// Equal compares kind and the meaningful slot.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch {
	case v.Kind == KindBool:
		return v.Bool == o.Bool
	case v.Kind.Signed():
		return v.Int == o.Int
	case v.Kind.Unsigned():
		return v.Uint == o.Uint
	case v.Kind == KindF32 || v.Kind == KindF64:
		return v.Float == o.Float || (math.IsNaN(v.Float) && math.IsNaN(o.Float))
	case v.Kind == KindString:
		return v.String == o.String
	case v.Kind == KindBytes:
		return bytes.Equal(v.Bytes, o.Bytes)
	}
	return false
}

// Clone deep-copies the byte slot.
func (v Value) Clone() Value {
	if v.Bytes != nil {
		buf := make([]byte, len(v.Bytes))
		copy(buf, v.Bytes)
		v.Bytes = buf
	}
	return v
}

// Fits reports whether the numeric slot is representable in Kind.
func (v Value) Fits() bool {
	switch v.Kind {
	case KindU8:
		return v.Uint <= math.MaxUint8
	case KindU16:
		return v.Uint <= math.MaxUint16
	case KindU32:
		return v.Uint <= math.MaxUint32
	case KindI8:
		return v.Int >= math.MinInt8 && v.Int <= math.MaxInt8
	case KindI16:
		return v.Int >= math.MinInt16 && v.Int <= math.MaxInt16
	case KindI32, KindVarInt:
		return v.Int >= math.MinInt32 && v.Int <= math.MaxInt32
	}
	return true
}

func (v Value) GoString() string {
	switch {
	case v.Kind == KindBool:
		return fmt.Sprintf("%s(%t)", v.Kind, v.Bool)
	case v.Kind.Signed():
		return fmt.Sprintf("%s(%d)", v.Kind, v.Int)
	case v.Kind.Unsigned():
		return fmt.Sprintf("%s(%d)", v.Kind, v.Uint)
	case v.Kind == KindF32 || v.Kind == KindF64:
		return fmt.Sprintf("%s(%g)", v.Kind, v.Float)
	case v.Kind == KindString:
		return fmt.Sprintf("%s(%q)", v.Kind, v.String)
	default:
		return fmt.Sprintf("%s(%x)", v.Kind, v.Bytes)
	}
}
