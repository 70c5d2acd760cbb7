package catalog

import (
	"github.com/danmuck/verbridge/internal/protocol/wire"
	"github.com/danmuck/verbridge/internal/translate"
)

// Steps returns the three hops of the demo family.
func Steps() []translate.Step {
	return []translate.Step{step1_7to1_8(), step1_8to1_9(), step1_9to1_12()}
}

func step1_7to1_8() translate.Step {
	return translate.Step{
		Lower: V1_7,
		Upper: V1_8,
		Up: translate.Rules{
			PassThrough: true,
			Rewrites: map[translate.Key]translate.Rewrite{
				{Direction: sb, Type: "keep_alive"}:      edit(retype("id", wire.KindVarInt)),
				{Direction: cb, Type: "keep_alive"}:      edit(retype("id", wire.KindVarInt)),
				{Direction: sb, Type: "position_look"}:   edit(remove("stance")),
				{Direction: sb, Type: "position"}:        edit(remove("stance")),
				{Direction: cb, Type: "entity_teleport"}: edit(retype("entity_id", wire.KindVarInt)),
			},
		},
		Down: translate.Rules{
			PassThrough: true,
			Rewrites: map[translate.Key]translate.Rewrite{
				{Direction: sb, Type: "keep_alive"}:      edit(retype("id", wire.KindI32)),
				{Direction: cb, Type: "keep_alive"}:      edit(retype("id", wire.KindI32)),
				{Direction: sb, Type: "position_look"}:   edit(addStance),
				{Direction: sb, Type: "position"}:        edit(addStance),
				{Direction: cb, Type: "entity_teleport"}: edit(retype("entity_id", wire.KindI32)),
			},
		},
	}
}

func step1_8to1_9() translate.Step {
	coords := []string{"x", "y", "z"}
	return translate.Step{
		Lower: V1_8,
		Upper: V1_9,
		Up: translate.Rules{
			PassThrough: true,
			Rewrites: map[translate.Key]translate.Rewrite{
				{Direction: sb, Type: "position_look"}:   splitMovement,
				{Direction: cb, Type: "entity_teleport"}: edit(fromFixedPoint(coords...)),
			},
		},
		Down: translate.Rules{
			PassThrough: true,
			Rewrites: map[translate.Key]translate.Rewrite{
				{Direction: sb, Type: "position"}:         translate.Rename("position"),
				{Direction: sb, Type: "look"}:             translate.Rename("look"),
				{Direction: sb, Type: "teleport_confirm"}: translate.Drop(),
				{Direction: cb, Type: "entity_teleport"}:  edit(toFixedPoint(coords...)),
			},
			Merges: []translate.Merge{{
				Direction: sb,
				Types:     []string{"position", "look"},
				Into:      joinMovement,
			}},
		},
	}
}

func step1_9to1_12() translate.Step {
	return translate.Step{
		Lower: V1_9,
		Upper: V1_12,
		Up: translate.Rules{
			PassThrough: true,
			Rewrites: map[translate.Key]translate.Rewrite{
				{Direction: sb, Type: "keep_alive"}: edit(retype("id", wire.KindI64)),
				{Direction: cb, Type: "keep_alive"}: edit(retype("id", wire.KindI64)),
			},
		},
		Down: translate.Rules{
			PassThrough: true,
			Rewrites: map[translate.Key]translate.Rewrite{
				{Direction: sb, Type: "keep_alive"}:     edit(retype("id", wire.KindVarInt)),
				{Direction: cb, Type: "keep_alive"}:     edit(retype("id", wire.KindVarInt)),
				{Direction: cb, Type: "unlock_recipes"}: translate.Drop(),
			},
		},
	}
}
