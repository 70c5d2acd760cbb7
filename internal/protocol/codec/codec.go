package codec

import (
	"errors"

	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/protocol/wire"
	"github.com/rs/zerolog/log"
)

var errTrailingBytes = errors.New("trailing bytes after last field")
var errMissingField = errors.New("missing field with no default")

// Codec encodes and decodes packet bodies: a varint packet id followed by the
// schema fields in declaration order.
type Codec struct {
	table *schema.Table
}

func New(table *schema.Table) *Codec {
	return &Codec{table: table}
}

func (c *Codec) Table() *schema.Table {
	return c.table
}

// Decode parses raw as a packet of ver travelling in dir.
func (c *Codec) Decode(ver string, dir schema.Direction, raw []byte) (Packet, error) {
	r := wire.NewReader(raw)
	id, err := r.VarInt()
	if err != nil {
		return Packet{}, MalformedPacketError{Version: ver, Direction: dir, Field: "packet_id", Err: err}
	}
	s, ok := c.table.Lookup(ver, dir, id)
	if !ok {
		log.Debug().Str("version", ver).Int32("id", id).Msg("codec.Decode unknown packet")
		return Packet{}, UnknownPacketTypeError{PacketID: id, Version: ver, Direction: dir}
	}
	p := Packet{
		Type:      s.Type,
		Version:   ver,
		Direction: dir,
		Fields:    make([]Field, 0, len(s.Fields)),
	}
	for _, spec := range s.Fields {
		v, err := r.Read(spec.Kind, spec.Order, spec.Prefix)
		if err != nil {
			return Packet{}, MalformedPacketError{Type: s.Type, Version: ver, Direction: dir, Field: spec.Name, Err: err}
		}
		p.Fields = append(p.Fields, Field{Name: spec.Name, Value: v})
	}
	if r.Remaining() != 0 {
		return Packet{}, MalformedPacketError{Type: s.Type, Version: ver, Direction: dir, Err: errTrailingBytes}
	}
	return p, nil
}

// Encode serializes p using the layout of ver. p.Version is not consulted; a
// translated packet may already carry the target tag.
func (c *Codec) Encode(p Packet, ver string) ([]byte, error) {
	s, ok := c.table.LookupType(ver, p.Direction, p.Type)
	if !ok {
		return nil, UnknownPacketTypeError{Type: p.Type, Version: ver, Direction: p.Direction}
	}
	for _, f := range p.Fields {
		if _, declared := s.Field(f.Name); declared {
			continue
		}
		if s.Droppable(f.Name) {
			log.Trace().Str("type", p.Type).Str("field", f.Name).Str("version", ver).Msg("codec.Encode drop field")
			continue
		}
		return nil, UnsupportedFieldError{Type: p.Type, Field: f.Name, Target: ver}
	}

	buf := wire.AppendVarInt(make([]byte, 0, 16), s.PacketID)
	for _, spec := range s.Fields {
		v, present := p.Get(spec.Name)
		if !present {
			if spec.Default == nil {
				return nil, MalformedPacketError{
					Type:      p.Type,
					Version:   ver,
					Direction: p.Direction,
					Field:     spec.Name,
					Err:       errMissingField,
				}
			}
			v = *spec.Default
		}
		var err error
		buf, err = wire.Append(buf, spec.Kind, spec.Order, spec.Prefix, v)
		if err != nil {
			return nil, MalformedPacketError{Type: p.Type, Version: ver, Direction: p.Direction, Field: spec.Name, Err: err}
		}
	}
	return buf, nil
}

// PeekID returns the packet id at the front of raw without decoding the body.
func PeekID(raw []byte) (int32, error) {
	id, _, err := wire.ConsumeVarInt(raw)
	return id, err
}
