package schema

import (
	"fmt"
	"strings"

	"github.com/danmuck/verbridge/internal/protocol/wire"
)

// Direction is the travel direction of a packet on the wire.
type Direction uint8

const (
	// Serverbound packets travel client -> server.
	Serverbound Direction = iota
	// Clientbound packets travel server -> client.
	Clientbound
)

func (d Direction) String() string {
	if d == Clientbound {
		return "clientbound"
	}
	return "serverbound"
}

// FieldSpec declares one field of a packet layout.
type FieldSpec struct {
	Name   string
	Kind   wire.Kind
	Order  wire.Order
	Prefix wire.Prefix
	// Default is written when an encoded packet lacks this field.
	Default *wire.Value
}

// Schema is the field layout of one packet type in one protocol version.
type Schema struct {
	Version   string
	Direction Direction
	PacketID  int32
	Type      string
	Fields    []FieldSpec
	// Drops names foreign fields discarded on encode instead of rejected.
	Drops []string
	// DropUnknown discards every foreign field on encode.
	DropUnknown bool
}

// Field returns the spec named name.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// Droppable reports whether a foreign field may be discarded on encode.
func (s Schema) Droppable(name string) bool {
	if s.DropUnknown {
		return true
	}
	for _, d := range s.Drops {
		if d == name {
			return true
		}
	}
	return false
}

// ValidationError reports a schema rejected at registration.
type ValidationError struct {
	Version string
	Type    string
	Field   string
	Reason  string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema: version=%s type=%s: %s", e.Version, e.Type, e.Reason)
	}
	return fmt.Sprintf("schema: version=%s type=%s field=%s: %s", e.Version, e.Type, e.Field, e.Reason)
}

func (s Schema) validate() error {
	if strings.TrimSpace(s.Version) == "" {
		return ValidationError{Type: s.Type, Reason: "missing version"}
	}
	if strings.TrimSpace(s.Type) == "" {
		return ValidationError{Version: s.Version, Reason: "missing type"}
	}
	if s.PacketID < 0 {
		return ValidationError{Version: s.Version, Type: s.Type, Reason: "negative packet id"}
	}
	seen := make(map[string]struct{}, len(s.Fields))
	for _, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return ValidationError{Version: s.Version, Type: s.Type, Reason: "unnamed field"}
		}
		if _, dup := seen[f.Name]; dup {
			return ValidationError{Version: s.Version, Type: s.Type, Field: f.Name, Reason: "duplicate field"}
		}
		seen[f.Name] = struct{}{}
		if !f.Kind.Valid() {
			return ValidationError{Version: s.Version, Type: s.Type, Field: f.Name, Reason: "unknown kind"}
		}
		if f.Default != nil && f.Default.Kind != f.Kind {
			return ValidationError{Version: s.Version, Type: s.Type, Field: f.Name, Reason: "default kind mismatch"}
		}
	}
	return nil
}
