package wire

import "fmt"

// Kind is the wire representation of one field.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindVarInt
	KindVarLong
	KindString
	KindBytes
)

var kindNames = map[Kind]string{
	KindBool:    "bool",
	KindU8:      "u8",
	KindI8:      "i8",
	KindU16:     "u16",
	KindI16:     "i16",
	KindU32:     "u32",
	KindI32:     "i32",
	KindU64:     "u64",
	KindI64:     "i64",
	KindF32:     "f32",
	KindF64:     "f64",
	KindVarInt:  "varint",
	KindVarLong: "varlong",
	KindString:  "string",
	KindBytes:   "bytes",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Signed reports kinds whose value lives in Value.Int.
func (k Kind) Signed() bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindVarInt, KindVarLong:
		return true
	}
	return false
}

// Unsigned reports kinds whose value lives in Value.Uint.
func (k Kind) Unsigned() bool {
	switch k {
	case KindU8, KindU16, KindU32, KindU64:
		return true
	}
	return false
}

// Order is the byte order of fixed-width numeric fields.
type Order uint8

const (
	BigEndian Order = iota
	LittleEndian
)

func (o Order) String() string {
	if o == LittleEndian {
		return "little"
	}
	return "big"
}

// Prefix is the width of the length prefix in front of strings and byte arrays.
type Prefix uint8

const (
	PrefixVarInt Prefix = iota
	PrefixU8
	PrefixU16
	PrefixU32
)

func (p Prefix) String() string {
	switch p {
	case PrefixU8:
		return "u8"
	case PrefixU16:
		return "u16"
	case PrefixU32:
		return "u32"
	default:
		return "varint"
	}
}

// Max is the longest payload the prefix can describe.
func (p Prefix) Max() uint64 {
	switch p {
	case PrefixU8:
		return 0xff
	case PrefixU16:
		return 0xffff
	case PrefixU32:
		return 0xffffffff
	default:
		return 0x7fffffff
	}
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}
