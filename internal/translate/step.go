package translate

import (
	"fmt"
	"strings"

	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/protocol/schema"
)

// Key selects the packets a rule applies to.
type Key struct {
	Direction schema.Direction
	Type      string
}

func (k Key) String() string {
	return k.Direction.String() + "/" + k.Type
}

// Rewrite converts one packet across a single hop. It may return zero, one or
// several packets. Returned packets are retagged with the hop's destination
// version by the translator.
type Rewrite func(p codec.Packet) ([]codec.Packet, error)

// Merge declares a fan-in: consecutive packets of Types, in order, are buffered
// and handed to Into once the group is complete.
type Merge struct {
	Direction schema.Direction
	Types     []string
	Into      func(group []codec.Packet) ([]codec.Packet, error)
}

// Rules are the rewrite rules of one travel direction of a hop.
type Rules struct {
	Rewrites map[Key]Rewrite
	Merges   []Merge
	// PassThrough forwards packets without a rule unchanged.
	PassThrough bool
}

// Identity forwards every packet unchanged.
func Identity() Rules {
	return Rules{PassThrough: true}
}

func (r Rules) validate() error {
	for i, m := range r.Merges {
		if len(m.Types) == 0 || m.Into == nil {
			return fmt.Errorf("%w: merge[%d] needs types and Into", ErrInvalidMerge, i)
		}
		for _, other := range r.Merges[:i] {
			if other.Direction == m.Direction && other.Types[0] == m.Types[0] {
				return fmt.Errorf("%w: merge[%d] shares leading type %q", ErrInvalidMerge, i, m.Types[0])
			}
		}
	}
	return nil
}

func (r Rules) mergeStartingWith(k Key) (int, bool) {
	for i, m := range r.Merges {
		if m.Direction == k.Direction && m.Types[0] == k.Type {
			return i, true
		}
	}
	return 0, false
}

// Step is the translation between two adjacent versions. Up rewrites Lower
// packets into Upper packets, Down the inverse.
type Step struct {
	Lower string
	Upper string
	Up    Rules
	Down  Rules
}

func (s Step) key() stepKey {
	return stepKey{lower: strings.TrimSpace(s.Lower), upper: strings.TrimSpace(s.Upper)}
}

type stepKey struct {
	lower string
	upper string
}

// Rename rewrites the packet type, keeping its fields.
func Rename(to string) Rewrite {
	return func(p codec.Packet) ([]codec.Packet, error) {
		p.Type = to
		return []codec.Packet{p}, nil
	}
}

// Drop consumes the packet without output. Use only where the destination
// version has no equivalent and dropping is the correct behaviour.
func Drop() Rewrite {
	return func(codec.Packet) ([]codec.Packet, error) {
		return nil, nil
	}
}
