package version

import "sync/atomic"

// Gate is the two-phase lifecycle guard embedded by process-wide registries:
// mutable until Freeze, read-only afterwards.
type Gate struct {
	Name   string
	frozen atomic.Bool
}

// Freeze ends the registration phase. Idempotent.
func (g *Gate) Freeze() {
	g.frozen.Store(true)
}

func (g *Gate) Frozen() bool {
	return g.frozen.Load()
}

// Check returns LateRegistrationError when item is registered after Freeze.
func (g *Gate) Check(item string) error {
	if g.frozen.Load() {
		return LateRegistrationError{Registry: g.Name, Item: item}
	}
	return nil
}
