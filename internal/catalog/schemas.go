package catalog

import (
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/protocol/wire"
)

const (
	sb = schema.Serverbound
	cb = schema.Clientbound
)

func field(name string, kind wire.Kind) schema.FieldSpec {
	return schema.FieldSpec{Name: name, Kind: kind}
}

func withDefault(f schema.FieldSpec, v wire.Value) schema.FieldSpec {
	f.Default = &v
	return f
}

func position() []schema.FieldSpec {
	return []schema.FieldSpec{
		field("x", wire.KindF64),
		field("y", wire.KindF64),
		field("z", wire.KindF64),
	}
}

func rotation() []schema.FieldSpec {
	return []schema.FieldSpec{
		field("yaw", wire.KindF32),
		field("pitch", wire.KindF32),
	}
}

func concat(parts ...[]schema.FieldSpec) []schema.FieldSpec {
	var out []schema.FieldSpec
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Schemas returns every packet layout of the demo family.
func Schemas() []schema.Schema {
	onGround := field("on_ground", wire.KindBool)
	chatPosition := withDefault(field("position", wire.KindI8), wire.I8(0))
	teleportGround := withDefault(field("on_ground", wire.KindBool), wire.Bool(false))

	var out []schema.Schema

	// 1.7
	out = append(out,
		schema.Schema{Version: V1_7, Direction: sb, PacketID: 0x00, Type: "keep_alive",
			Fields: []schema.FieldSpec{field("id", wire.KindI32)}},
		schema.Schema{Version: V1_7, Direction: sb, PacketID: 0x01, Type: "chat",
			Fields: []schema.FieldSpec{{Name: "message", Kind: wire.KindString, Prefix: wire.PrefixU16}}},
		schema.Schema{Version: V1_7, Direction: sb, PacketID: 0x06, Type: "position_look",
			Fields: []schema.FieldSpec{
				field("x", wire.KindF64),
				field("y", wire.KindF64),
				field("stance", wire.KindF64),
				field("z", wire.KindF64),
				field("yaw", wire.KindF32),
				field("pitch", wire.KindF32),
				onGround,
			}},
		schema.Schema{Version: V1_7, Direction: sb, PacketID: 0x04, Type: "position",
			Fields: []schema.FieldSpec{
				field("x", wire.KindF64),
				field("y", wire.KindF64),
				field("stance", wire.KindF64),
				field("z", wire.KindF64),
				onGround,
			}},
		schema.Schema{Version: V1_7, Direction: sb, PacketID: 0x05, Type: "look",
			Fields: concat(rotation(), []schema.FieldSpec{onGround})},
		schema.Schema{Version: V1_7, Direction: cb, PacketID: 0x00, Type: "keep_alive",
			Fields: []schema.FieldSpec{field("id", wire.KindI32)}},
		schema.Schema{Version: V1_7, Direction: cb, PacketID: 0x02, Type: "chat_message",
			Fields: []schema.FieldSpec{{Name: "json", Kind: wire.KindString, Prefix: wire.PrefixU16}},
			Drops:  []string{"position"}},
		schema.Schema{Version: V1_7, Direction: cb, PacketID: 0x18, Type: "entity_teleport",
			Fields: []schema.FieldSpec{
				field("entity_id", wire.KindI32),
				field("x", wire.KindI32),
				field("y", wire.KindI32),
				field("z", wire.KindI32),
				field("yaw", wire.KindU8),
				field("pitch", wire.KindU8),
			},
			Drops: []string{"on_ground"}},
	)

	// 1.8
	out = append(out,
		schema.Schema{Version: V1_8, Direction: sb, PacketID: 0x00, Type: "keep_alive",
			Fields: []schema.FieldSpec{field("id", wire.KindVarInt)}},
		schema.Schema{Version: V1_8, Direction: sb, PacketID: 0x01, Type: "chat",
			Fields: []schema.FieldSpec{field("message", wire.KindString)}},
		schema.Schema{Version: V1_8, Direction: sb, PacketID: 0x06, Type: "position_look",
			Fields: concat(position(), rotation(), []schema.FieldSpec{onGround})},
		schema.Schema{Version: V1_8, Direction: sb, PacketID: 0x04, Type: "position",
			Fields: concat(position(), []schema.FieldSpec{onGround})},
		schema.Schema{Version: V1_8, Direction: sb, PacketID: 0x05, Type: "look",
			Fields: concat(rotation(), []schema.FieldSpec{onGround})},
		schema.Schema{Version: V1_8, Direction: cb, PacketID: 0x00, Type: "keep_alive",
			Fields: []schema.FieldSpec{field("id", wire.KindVarInt)}},
		schema.Schema{Version: V1_8, Direction: cb, PacketID: 0x02, Type: "chat_message",
			Fields: []schema.FieldSpec{field("json", wire.KindString), chatPosition}},
		schema.Schema{Version: V1_8, Direction: cb, PacketID: 0x18, Type: "entity_teleport",
			Fields: []schema.FieldSpec{
				field("entity_id", wire.KindVarInt),
				field("x", wire.KindI32),
				field("y", wire.KindI32),
				field("z", wire.KindI32),
				field("yaw", wire.KindU8),
				field("pitch", wire.KindU8),
				teleportGround,
			}},
	)

	// 1.9 and 1.12 share layouts except keep-alive width and recipes.
	for _, ids := range []struct {
		ver                              string
		confirm, chat, keepSB, pos, look int32
		keepCB, chatCB, teleport         int32
		keepKind                         wire.Kind
	}{
		{V1_9, 0x00, 0x02, 0x0B, 0x0C, 0x0E, 0x1F, 0x0F, 0x4A, wire.KindVarInt},
		{V1_12, 0x00, 0x02, 0x0B, 0x0D, 0x0F, 0x1F, 0x0F, 0x4C, wire.KindI64},
	} {
		out = append(out,
			schema.Schema{Version: ids.ver, Direction: sb, PacketID: ids.confirm, Type: "teleport_confirm",
				Fields: []schema.FieldSpec{field("teleport_id", wire.KindVarInt)}},
			schema.Schema{Version: ids.ver, Direction: sb, PacketID: ids.chat, Type: "chat",
				Fields: []schema.FieldSpec{field("message", wire.KindString)}},
			schema.Schema{Version: ids.ver, Direction: sb, PacketID: ids.keepSB, Type: "keep_alive",
				Fields: []schema.FieldSpec{field("id", ids.keepKind)}},
			schema.Schema{Version: ids.ver, Direction: sb, PacketID: ids.pos, Type: "position",
				Fields: concat(position(), []schema.FieldSpec{onGround})},
			schema.Schema{Version: ids.ver, Direction: sb, PacketID: ids.look, Type: "look",
				Fields: concat(rotation(), []schema.FieldSpec{onGround})},
			schema.Schema{Version: ids.ver, Direction: cb, PacketID: ids.keepCB, Type: "keep_alive",
				Fields: []schema.FieldSpec{field("id", ids.keepKind)}},
			schema.Schema{Version: ids.ver, Direction: cb, PacketID: ids.chatCB, Type: "chat_message",
				Fields: []schema.FieldSpec{field("json", wire.KindString), chatPosition}},
			schema.Schema{Version: ids.ver, Direction: cb, PacketID: ids.teleport, Type: "entity_teleport",
				Fields: []schema.FieldSpec{
					field("entity_id", wire.KindVarInt),
					field("x", wire.KindF64),
					field("y", wire.KindF64),
					field("z", wire.KindF64),
					field("yaw", wire.KindU8),
					field("pitch", wire.KindU8),
					teleportGround,
				}},
		)
	}

	out = append(out, schema.Schema{Version: V1_12, Direction: cb, PacketID: 0x31, Type: "unlock_recipes",
		Fields: []schema.FieldSpec{
			field("action", wire.KindVarInt),
			field("book_open", wire.KindBool),
			{Name: "mask", Kind: wire.KindU32, Order: wire.LittleEndian},
			{Name: "recipes", Kind: wire.KindBytes, Prefix: wire.PrefixU32},
		}})
	return out
}
