package catalog

import "github.com/danmuck/verbridge/internal/fix"

// MovementParams tunes client movement to what a legacy server accepts.
type MovementParams struct {
	PositionThreshold float64
	SneakEyeHeight    float64
}

// CollisionParams are legacy entity and block collision sizes.
type CollisionParams struct {
	PlayerWidth  float64
	PlayerHeight float64
	LadderDepth  float64
}

// ItemParams toggles item behaviour introduced after the legacy versions.
type ItemParams struct {
	Offhand        bool
	AttackCooldown bool
}

// WorldParams is the buildable height of the world.
type WorldParams struct {
	MinY   int
	Height int
}

// Fixes returns the demo fix units. Ranges within a domain never overlap.
func Fixes() []fix.Unit {
	return []fix.Unit{
		{
			Name:   "legacy-movement",
			Domain: fix.Movement,
			Range:  fix.Range{Low: V1_7, High: V1_8},
			Value:  MovementParams{PositionThreshold: 0.03, SneakEyeHeight: 1.54},
		},
		{
			Name:   "legacy-collision",
			Domain: fix.Collision,
			Range:  fix.Range{Low: V1_7, High: V1_8},
			Value:  CollisionParams{PlayerWidth: 0.6, PlayerHeight: 1.8, LadderDepth: 0.125},
		},
		{
			Name:   "combat-update-collision",
			Domain: fix.Collision,
			Range:  fix.Range{Low: V1_9, High: V1_9},
			Value:  CollisionParams{PlayerWidth: 0.6, PlayerHeight: 1.8, LadderDepth: 0.1875},
		},
		{
			Name:   "pre-offhand-items",
			Domain: fix.Item,
			Range:  fix.Range{Low: V1_7, High: V1_8},
			Value:  ItemParams{},
		},
		{
			Name:   "legacy-entity-ids",
			Domain: fix.EntityRegistry,
			Range:  fix.Range{Low: V1_7, High: V1_7},
			Value:  map[string]int32{"horse": 100, "minecart": 10},
		},
		{
			Name:   "fixed-world-height",
			Domain: fix.World,
			Range:  fix.Range{Low: V1_7, High: V1_12},
			Value:  WorldParams{MinY: 0, Height: 256},
		},
	}
}
