// Package catalog is the built-in demonstration protocol family.
//
// Four versions are bridged: 1.7 -> 1.8 -> 1.9 -> 1.12. Each hop carries a
// characteristic change:
// - 1.7/1.8: fixed-width ids become varints, stance leaves position_look
// - 1.8/1.9: position_look splits into position + look, teleports go fixed-point to f64
// - 1.9/1.12: keep-alive ids widen to i64, 1.12 adds unlock_recipes
package catalog
