package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/protocol/wire"
	"github.com/danmuck/verbridge/internal/translate"
)

var (
	errMissingField  = errors.New("catalog: missing field")
	errNotFixedPoint = errors.New("catalog: coordinate outside fixed-point range")
)

// op edits one packet in place.
type op func(p *codec.Packet) error

// edit applies ops and keeps the packet type.
func edit(ops ...op) translate.Rewrite {
	return func(p codec.Packet) ([]codec.Packet, error) {
		for _, o := range ops {
			if err := o(&p); err != nil {
				return nil, err
			}
		}
		return []codec.Packet{p}, nil
	}
}

func get(p *codec.Packet, name string) (wire.Value, error) {
	v, ok := p.Get(name)
	if !ok {
		return wire.Value{}, fmt.Errorf("%w: %s.%s", errMissingField, p.Type, name)
	}
	return v, nil
}

// retype moves a signed integer field to another signed kind.
func retype(name string, to wire.Kind) op {
	return func(p *codec.Packet) error {
		v, err := get(p, name)
		if err != nil {
			return err
		}
		if !v.Kind.Signed() || !to.Signed() {
			return fmt.Errorf("%w: %s %s -> %s", wire.ErrKindMismatch, name, v.Kind, to)
		}
		out := wire.Value{Kind: to, Int: v.Int}
		if !out.Fits() {
			return fmt.Errorf("%w: %s=%d as %s", wire.ErrValueOutOfRange, name, v.Int, to)
		}
		p.Set(name, out)
		return nil
	}
}

func remove(name string) op {
	return func(p *codec.Packet) error {
		p.Remove(name)
		return nil
	}
}

// eyeHeight is the legacy stance offset above the feet.
const eyeHeight = 1.62

func addStance(p *codec.Packet) error {
	y, err := get(p, "y")
	if err != nil {
		return err
	}
	p.Set("stance", wire.F64(y.Float+eyeHeight))
	return nil
}

// Legacy teleports carry absolute coordinates as 1/32 block fixed-point ints.
const fixedPointScale = 32

func fromFixedPoint(names ...string) op {
	return func(p *codec.Packet) error {
		for _, name := range names {
			v, err := get(p, name)
			if err != nil {
				return err
			}
			p.Set(name, wire.F64(float64(v.Int)/fixedPointScale))
		}
		return nil
	}
}

func toFixedPoint(names ...string) op {
	return func(p *codec.Packet) error {
		for _, name := range names {
			v, err := get(p, name)
			if err != nil {
				return err
			}
			scaled := math.Floor(v.Float * fixedPointScale)
			if scaled < math.MinInt32 || scaled > math.MaxInt32 || math.IsNaN(scaled) {
				return fmt.Errorf("%w: %s=%g", errNotFixedPoint, name, v.Float)
			}
			p.Set(name, wire.I32(int32(scaled)))
		}
		return nil
	}
}

// splitMovement turns position_look into position followed by look.
func splitMovement(p codec.Packet) ([]codec.Packet, error) {
	pos := codec.Packet{Type: "position", Direction: p.Direction}
	look := codec.Packet{Type: "look", Direction: p.Direction}
	for _, name := range []string{"x", "y", "z"} {
		v, err := get(&p, name)
		if err != nil {
			return nil, err
		}
		pos.Set(name, v)
	}
	for _, name := range []string{"yaw", "pitch"} {
		v, err := get(&p, name)
		if err != nil {
			return nil, err
		}
		look.Set(name, v)
	}
	ground, err := get(&p, "on_ground")
	if err != nil {
		return nil, err
	}
	pos.Set("on_ground", ground)
	look.Set("on_ground", ground)
	return []codec.Packet{pos, look}, nil
}

// joinMovement is the inverse of splitMovement. The look packet carries the
// latest on_ground.
func joinMovement(group []codec.Packet) ([]codec.Packet, error) {
	pos, look := group[0], group[1]
	out := codec.Packet{Type: "position_look", Direction: pos.Direction}
	for _, name := range []string{"x", "y", "z"} {
		v, err := get(&pos, name)
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
	for _, name := range []string{"yaw", "pitch", "on_ground"} {
		v, err := get(&look, name)
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
	return []codec.Packet{out}, nil
}
