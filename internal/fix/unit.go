package fix

import (
	"fmt"
	"strings"
)

// Domain is the gameplay area a fix patches.
type Domain string

const (
	Movement       Domain = "movement"
	Collision      Domain = "collision"
	Item           Domain = "item"
	EntityRegistry Domain = "entity_registry"
	World          Domain = "world"
)

// Normalize trims and lower-cases d.
func (d Domain) Normalize() Domain {
	return Domain(strings.ToLower(strings.TrimSpace(string(d))))
}

// Range is an inclusive version range by version id.
type Range struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

func (r Range) String() string {
	return fmt.Sprintf("[%s,%s]", r.Low, r.High)
}

// Unit is one behaviour fix. Value carries the parameters gameplay code reads,
// e.g. a step height or a hitbox size.
type Unit struct {
	Name   string `json:"name"`
	Domain Domain `json:"domain"`
	Range  Range  `json:"range"`
	Value  any    `json:"value,omitempty"`
}

// Toggles disables whole domains regardless of version. Missing domains are enabled.
type Toggles map[Domain]bool

// Enabled reports whether d is switched on.
func (t Toggles) Enabled(d Domain) bool {
	if t == nil {
		return true
	}
	on, ok := t[d.Normalize()]
	return !ok || on
}
