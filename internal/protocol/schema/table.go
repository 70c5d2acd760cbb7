package schema

import (
	"fmt"
	"sort"

	"github.com/danmuck/verbridge/internal/version"
	"github.com/rs/zerolog/log"
)

type idKey struct {
	version   string
	direction Direction
	id        int32
}

type typeKey struct {
	version   string
	direction Direction
	name      string
}

// Table holds every packet schema, keyed by version and direction.
// Populated at startup, read-only once frozen.
type Table struct {
	version.Gate
	versions *version.Registry
	byID     map[idKey]Schema
	byType   map[typeKey]Schema
}

func NewTable(versions *version.Registry) *Table {
	return &Table{
		Gate:     version.Gate{Name: "schema"},
		versions: versions,
		byID:     make(map[idKey]Schema),
		byType:   make(map[typeKey]Schema),
	}
}

// Register adds s. Packet ids and type names are unique per version and direction.
func (t *Table) Register(s Schema) error {
	if err := t.Check(s.Version + "/" + s.Type); err != nil {
		return err
	}
	if err := s.validate(); err != nil {
		return err
	}
	if _, err := t.versions.Resolve(s.Version); err != nil {
		return ValidationError{Version: s.Version, Type: s.Type, Reason: err.Error()}
	}
	ik := idKey{s.Version, s.Direction, s.PacketID}
	if held, ok := t.byID[ik]; ok {
		return ValidationError{
			Version: s.Version,
			Type:    s.Type,
			Reason:  fmt.Sprintf("packet id 0x%02x already used by %s", s.PacketID, held.Type),
		}
	}
	tk := typeKey{s.Version, s.Direction, s.Type}
	if _, ok := t.byType[tk]; ok {
		return ValidationError{Version: s.Version, Type: s.Type, Reason: "type already registered"}
	}
	s.Fields = append([]FieldSpec(nil), s.Fields...)
	s.Drops = append([]string(nil), s.Drops...)
	t.byID[ik] = s
	t.byType[tk] = s
	log.Debug().
		Str("version", s.Version).
		Stringer("direction", s.Direction).
		Str("type", s.Type).
		Int32("id", s.PacketID).
		Msg("schema.Table.Register")
	return nil
}

// Lookup resolves a schema by wire packet id.
func (t *Table) Lookup(ver string, dir Direction, id int32) (Schema, bool) {
	s, ok := t.byID[idKey{ver, dir, id}]
	return s, ok
}

// LookupType resolves a schema by packet type name.
func (t *Table) LookupType(ver string, dir Direction, name string) (Schema, bool) {
	s, ok := t.byType[typeKey{ver, dir, name}]
	return s, ok
}

// Schemas lists the schemas of one version ordered by direction then packet id.
func (t *Table) Schemas(ver string) []Schema {
	out := make([]Schema, 0)
	for k, s := range t.byID {
		if k.version == ver {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Direction != out[j].Direction {
			return out[i].Direction < out[j].Direction
		}
		return out[i].PacketID < out[j].PacketID
	})
	return out
}

func (t *Table) Len() int {
	return len(t.byID)
}
