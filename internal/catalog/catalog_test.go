package catalog

import (
	"errors"
	"testing"

	"github.com/danmuck/verbridge/internal/bridge"
	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/protocol/wire"
	"github.com/danmuck/verbridge/internal/testutil/testlog"
	"github.com/danmuck/verbridge/internal/translate"
	"github.com/danmuck/verbridge/internal/version"
	"github.com/stretchr/testify/require"
)

func sample(kind wire.Kind, i int) wire.Value {
	switch kind {
	case wire.KindBool:
		return wire.Bool(i%2 == 0)
	case wire.KindU8:
		return wire.U8(uint8(200 + i))
	case wire.KindI8:
		return wire.I8(int8(-3 - i))
	case wire.KindU16:
		return wire.U16(uint16(60000 + i))
	case wire.KindI16:
		return wire.I16(int16(-300 - i))
	case wire.KindU32:
		return wire.U32(uint32(0xdead0000 + i))
	case wire.KindI32:
		return wire.I32(int32(-70000 - i))
	case wire.KindU64:
		return wire.U64(uint64(1<<40 + i))
	case wire.KindI64:
		return wire.I64(int64(-1<<40 - i))
	case wire.KindF32:
		return wire.F32(float32(i) + 0.5)
	case wire.KindF64:
		return wire.F64(float64(i) - 128.25)
	case wire.KindVarInt:
		return wire.VarInt(int32(-1 - i))
	case wire.KindVarLong:
		return wire.VarLong(int64(1<<35 + i))
	case wire.KindString:
		return wire.String("héllo")
	default:
		return wire.Bytes([]byte{0x00, 0xff, byte(i)})
	}
}

func installed(t *testing.T) *bridge.Core {
	t.Helper()
	core, err := bridge.New(bridge.Options{Installers: []bridge.Installer{Pack{}}})
	require.NoError(t, err)
	require.NoError(t, core.Initialize(t.TempDir()))
	return core
}

func newCodec(t *testing.T) *codec.Codec {
	t.Helper()
	versions := version.NewRegistry()
	for _, v := range Versions() {
		require.NoError(t, versions.Register(v))
	}
	table := schema.NewTable(versions)
	for _, s := range Schemas() {
		require.NoError(t, table.Register(s))
	}
	return codec.New(table)
}

func TestEverySchemaRoundTrips(t *testing.T) {
	testlog.Start(t)
	c := newCodec(t)
	for _, s := range Schemas() {
		p := codec.Packet{Type: s.Type, Version: s.Version, Direction: s.Direction}
		for i, f := range s.Fields {
			p.Set(f.Name, sample(f.Kind, i))
		}
		raw, err := c.Encode(p, s.Version)
		require.NoError(t, err, "%s/%s", s.Version, s.Type)
		got, err := c.Decode(s.Version, s.Direction, raw)
		require.NoError(t, err, "%s/%s", s.Version, s.Type)
		require.True(t, p.Equal(got), "%s/%s: %+v != %+v", s.Version, s.Type, p, got)
	}
}

func TestEveryPairBuildsAChain(t *testing.T) {
	testlog.Start(t)
	core := installed(t)
	all := core.Versions()
	require.Len(t, all, 4)
	for _, native := range all {
		for _, target := range all {
			s, err := core.OpenSession(native.ID, target.ID)
			require.NoError(t, err, "%s->%s", native.ID, target.ID)
			require.Equal(t, native.Distance(target), s.Chain().Len())
			require.NoError(t, core.CloseSession(s))
		}
	}
}

func TestInstallTwiceFailsAtFirstDuplicate(t *testing.T) {
	testlog.Start(t)
	core, err := bridge.New(bridge.Options{})
	require.NoError(t, err)
	require.NoError(t, Pack{}.Install(core))
	err = Pack{}.Install(core)
	var dup version.DuplicateVersionError
	require.ErrorAs(t, err, &dup)
	require.True(t, bridge.Fatal(err))
}

func TestFixRangesDoNotOverlap(t *testing.T) {
	testlog.Start(t)
	versions := version.NewRegistry()
	for _, v := range Versions() {
		require.NoError(t, versions.Register(v))
	}
	reg := fix.NewRegistry(versions)
	for _, u := range Fixes() {
		require.NoError(t, reg.Register(u.Domain, u.Range, u))
	}

	legacy, err := reg.ActiveFixes(V1_7)
	require.NoError(t, err)
	require.Len(t, legacy, 5)
	modern, err := reg.ActiveFixes(V1_12)
	require.NoError(t, err)
	require.Len(t, modern, 1)
	require.Equal(t, fix.World, modern[0].Domain)
}

func movement(ver string, x, y, z float64, yaw, pitch float32) codec.Packet {
	p := codec.Packet{Type: "position_look", Version: ver, Direction: schema.Serverbound}
	p.Set("x", wire.F64(x))
	p.Set("y", wire.F64(y))
	p.Set("z", wire.F64(z))
	p.Set("yaw", wire.F32(yaw))
	p.Set("pitch", wire.F32(pitch))
	p.Set("on_ground", wire.Bool(true))
	return p
}

func TestLegacyMovementSplitsAndMergesBack(t *testing.T) {
	testlog.Start(t)
	c := newCodec(t)
	legacy := movement(V1_8, 10, 64, -3, 90.5, 12.25)
	raw, err := c.Encode(legacy, V1_8)
	require.NoError(t, err)

	core := installed(t)
	up, err := core.OpenSession(V1_8, V1_12)
	require.NoError(t, err)
	out, err := up.TranslateOutbound(raw)
	require.NoError(t, err)
	require.Len(t, out, 2)

	pos, err := c.Decode(V1_12, schema.Serverbound, out[0])
	require.NoError(t, err)
	look, err := c.Decode(V1_12, schema.Serverbound, out[1])
	require.NoError(t, err)
	require.Equal(t, "position", pos.Type)
	require.Equal(t, "look", look.Type)

	down, err := core.OpenSession(V1_12, V1_8)
	require.NoError(t, err)
	first, err := down.TranslateOutbound(out[0])
	require.NoError(t, err)
	require.Empty(t, first)
	second, err := down.TranslateOutbound(out[1])
	require.NoError(t, err)
	require.Len(t, second, 1)

	back, err := c.Decode(V1_8, schema.Serverbound, second[0])
	require.NoError(t, err)
	require.True(t, legacy.Equal(back), "%+v != %+v", legacy, back)
}

func TestStanceRestoredForOldestVersion(t *testing.T) {
	testlog.Start(t)
	core := installed(t)
	s, err := core.OpenSession(V1_8, V1_7)
	require.NoError(t, err)
	c := newCodec(t)
	raw, err := c.Encode(movement(V1_8, 1, 70, 2, 0, 0), V1_8)
	require.NoError(t, err)

	out, err := s.TranslateOutbound(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	got, err := c.Decode(V1_7, schema.Serverbound, out[0])
	require.NoError(t, err)
	stance, ok := got.Get("stance")
	require.True(t, ok)
	require.InDelta(t, 71.62, stance.Float, 1e-9)
}

func TestTeleportFixedPointInbound(t *testing.T) {
	testlog.Start(t)
	core := installed(t)
	s, err := core.OpenSession(V1_12, V1_7)
	require.NoError(t, err)
	c := newCodec(t)

	tp := codec.Packet{Type: "entity_teleport", Version: V1_7, Direction: schema.Clientbound}
	tp.Set("entity_id", wire.I32(7))
	tp.Set("x", wire.I32(320))
	tp.Set("y", wire.I32(-16))
	tp.Set("z", wire.I32(33))
	tp.Set("yaw", wire.U8(64))
	tp.Set("pitch", wire.U8(0))
	raw, err := c.Encode(tp, V1_7)
	require.NoError(t, err)

	out, err := s.TranslateInbound(raw)
	require.NoError(t, err)
	require.Len(t, out, 1)
	got, err := c.Decode(V1_12, schema.Clientbound, out[0])
	require.NoError(t, err)
	x, _ := got.Get("x")
	y, _ := got.Get("y")
	z, _ := got.Get("z")
	ground, _ := got.Get("on_ground")
	require.Equal(t, 10.0, x.Float)
	require.Equal(t, -0.5, y.Float)
	require.Equal(t, 1.03125, z.Float)
	require.False(t, ground.Bool)
}

func TestRecipesDroppedForOlderClients(t *testing.T) {
	testlog.Start(t)
	core := installed(t)
	s, err := core.OpenSession(V1_9, V1_12)
	require.NoError(t, err)
	c := newCodec(t)

	p := codec.Packet{Type: "unlock_recipes", Version: V1_12, Direction: schema.Clientbound}
	p.Set("action", wire.VarInt(0))
	p.Set("book_open", wire.Bool(true))
	p.Set("mask", wire.U32(3))
	p.Set("recipes", wire.Bytes([]byte{1, 2}))
	raw, err := c.Encode(p, V1_12)
	require.NoError(t, err)

	out, err := s.TranslateInbound(raw)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestKeepAliveOutOfRangeIsUntranslatable(t *testing.T) {
	testlog.Start(t)
	core := installed(t)
	s, err := core.OpenSession(V1_9, V1_12)
	require.NoError(t, err)
	c := newCodec(t)

	p := codec.Packet{Type: "keep_alive", Version: V1_12, Direction: schema.Clientbound}
	p.Set("id", wire.I64(1<<40))
	raw, err := c.Encode(p, V1_12)
	require.NoError(t, err)

	_, err = s.TranslateInbound(raw)
	var untranslatable translate.UntranslatablePacketError
	require.ErrorAs(t, err, &untranslatable)
	require.True(t, errors.Is(err, wire.ErrValueOutOfRange))
	require.True(t, bridge.Recoverable(err))
	require.False(t, s.Closed())
}
