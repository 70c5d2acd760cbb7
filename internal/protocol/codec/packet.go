package codec

import (
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/protocol/wire"
)

// Field is one named value of a structured packet.
type Field struct {
	Name  string
	Value wire.Value
}

// Packet is a decoded packet tagged with the version its layout belongs to.
type Packet struct {
	Type      string
	Version   string
	Direction schema.Direction
	Fields    []Field
}

// Get returns the value named name.
func (p Packet) Get(name string) (wire.Value, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return wire.Value{}, false
}

// Set replaces the value named name or appends it.
func (p *Packet) Set(name string, v wire.Value) {
	for i := range p.Fields {
		if p.Fields[i].Name == name {
			p.Fields[i].Value = v
			return
		}
	}
	p.Fields = append(p.Fields, Field{Name: name, Value: v})
}

// Remove deletes the value named name and reports whether it existed.
func (p *Packet) Remove(name string) (wire.Value, bool) {
	for i := range p.Fields {
		if p.Fields[i].Name == name {
			v := p.Fields[i].Value
			p.Fields = append(p.Fields[:i], p.Fields[i+1:]...)
			return v, true
		}
	}
	return wire.Value{}, false
}

// Rename moves the value at from to to, keeping its position.
func (p *Packet) Rename(from, to string) bool {
	for i := range p.Fields {
		if p.Fields[i].Name == from {
			p.Fields[i].Name = to
			return true
		}
	}
	return false
}

// Clone deep-copies p.
func (p Packet) Clone() Packet {
	out := p
	out.Fields = make([]Field, len(p.Fields))
	for i, f := range p.Fields {
		out.Fields[i] = Field{Name: f.Name, Value: f.Value.Clone()}
	}
	return out
}

// Retag returns a copy of p tagged with ver.
func (p Packet) Retag(ver string) Packet {
	out := p.Clone()
	out.Version = ver
	return out
}

// Equal compares identity and field values. Field order is not significant.
func (p Packet) Equal(o Packet) bool {
	if p.Type != o.Type || p.Version != o.Version || p.Direction != o.Direction {
		return false
	}
	if len(p.Fields) != len(o.Fields) {
		return false
	}
	for _, f := range p.Fields {
		v, ok := o.Get(f.Name)
		if !ok || !v.Equal(f.Value) {
			return false
		}
	}
	return true
}
