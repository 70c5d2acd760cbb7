package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/danmuck/verbridge/internal/testutil/testlog"
)

func TestVarIntKnownEncodings(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		v    int32
		want []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xff, 0x01}},
		{2147483647, []byte{0xff, 0xff, 0xff, 0xff, 0x07}},
		{-1, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
		{math.MinInt32, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}
	for _, tc := range cases {
		got := AppendVarInt(nil, tc.v)
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("varint %d got=%x want=%x", tc.v, got, tc.want)
		}
		if VarIntLen(tc.v) != len(tc.want) {
			t.Fatalf("varint len %d got=%d", tc.v, VarIntLen(tc.v))
		}
		back, n, err := ConsumeVarInt(got)
		if err != nil || back != tc.v || n != len(got) {
			t.Fatalf("consume %x got=%d n=%d err=%v", got, back, n, err)
		}
	}
}

func TestConsumeVarIntErrors(t *testing.T) {
	testlog.Start(t)
	if _, _, err := ConsumeVarInt([]byte{0x80, 0x80}); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if _, _, err := ConsumeVarInt([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}); !errors.Is(err, ErrVarIntTooLong) {
		t.Fatalf("expected ErrVarIntTooLong, got %v", err)
	}
}

func TestFixedWidthByteOrder(t *testing.T) {
	testlog.Start(t)
	big, err := Append(nil, KindU16, BigEndian, PrefixVarInt, U16(0x0102))
	if err != nil {
		t.Fatalf("append big: %v", err)
	}
	little, err := Append(nil, KindU16, LittleEndian, PrefixVarInt, U16(0x0102))
	if err != nil {
		t.Fatalf("append little: %v", err)
	}
	if !bytes.Equal(big, []byte{0x01, 0x02}) || !bytes.Equal(little, []byte{0x02, 0x01}) {
		t.Fatalf("byte order mismatch big=%x little=%x", big, little)
	}
	v, err := NewReader(little).Read(KindU16, LittleEndian, PrefixVarInt)
	if err != nil || v.Uint != 0x0102 {
		t.Fatalf("read little got=%#v err=%v", v, err)
	}
}

func TestRoundTripEveryKind(t *testing.T) {
	testlog.Start(t)
	values := []Value{
		Bool(true), U8(200), I8(-5), U16(65000), I16(-30000), U32(4000000000), I32(-2000000000),
		U64(math.MaxUint64), I64(math.MinInt64), F32(1.5), F64(-3.25), VarInt(-7), VarLong(1 << 40),
		String("hello"), Bytes([]byte{1, 2, 3}),
	}
	for _, prefix := range []Prefix{PrefixVarInt, PrefixU8, PrefixU16, PrefixU32} {
		for _, order := range []Order{BigEndian, LittleEndian} {
			var buf []byte
			for _, v := range values {
				var err error
				buf, err = Append(buf, v.Kind, order, prefix, v)
				if err != nil {
					t.Fatalf("append %#v: %v", v, err)
				}
			}
			r := NewReader(buf)
			for _, want := range values {
				got, err := r.Read(want.Kind, order, prefix)
				if err != nil {
					t.Fatalf("read %s: %v", want.Kind, err)
				}
				if !got.Equal(want) {
					t.Fatalf("prefix=%s order=%s got=%#v want=%#v", prefix, order, got, want)
				}
			}
			if r.Remaining() != 0 {
				t.Fatalf("trailing bytes: %d", r.Remaining())
			}
		}
	}
}

func TestAppendRejectsMismatchAndOverflow(t *testing.T) {
	testlog.Start(t)
	if _, err := Append(nil, KindU8, BigEndian, PrefixVarInt, U16(1)); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if _, err := Append(nil, KindU8, BigEndian, PrefixVarInt, Value{Kind: KindU8, Uint: 300}); !errors.Is(err, ErrValueOutOfRange) {
		t.Fatalf("expected ErrValueOutOfRange, got %v", err)
	}
	long := String(string(make([]byte, 300)))
	if _, err := Append(nil, KindString, BigEndian, PrefixU8, long); !errors.Is(err, ErrPrefixOverflow) {
		t.Fatalf("expected ErrPrefixOverflow, got %v", err)
	}
}

func TestReadShortStringAndBadBool(t *testing.T) {
	testlog.Start(t)
	if _, err := NewReader([]byte{0x05, 'a'}).Read(KindString, BigEndian, PrefixVarInt); !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("expected ErrShortBuffer, got %v", err)
	}
	if _, err := NewReader([]byte{0x02}).Read(KindBool, BigEndian, PrefixVarInt); !errors.Is(err, ErrInvalidBool) {
		t.Fatalf("expected ErrInvalidBool, got %v", err)
	}
}
