package codec

import (
	"fmt"

	"github.com/danmuck/verbridge/internal/protocol/schema"
)

// MalformedPacketError reports bytes or values that do not fit the schema.
type MalformedPacketError struct {
	Type      string
	Version   string
	Direction schema.Direction
	Field     string
	Err       error
}

func (e MalformedPacketError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("codec: malformed %s packet type=%q version=%s: %v", e.Direction, e.Type, e.Version, e.Err)
	}
	return fmt.Sprintf(
		"codec: malformed %s packet type=%q version=%s field=%s: %v",
		e.Direction,
		e.Type,
		e.Version,
		e.Field,
		e.Err,
	)
}

func (e MalformedPacketError) Unwrap() error {
	return e.Err
}

// UnknownPacketTypeError reports a packet with no schema in the given version.
// PacketID is set on decode, Type on encode.
type UnknownPacketTypeError struct {
	PacketID  int32
	Type      string
	Version   string
	Direction schema.Direction
}

func (e UnknownPacketTypeError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("codec: unknown %s packet type=%q version=%s", e.Direction, e.Type, e.Version)
	}
	return fmt.Sprintf("codec: unknown %s packet id=0x%02x version=%s", e.Direction, e.PacketID, e.Version)
}

// UnsupportedFieldError reports a field the target schema neither declares nor drops.
// The source version is named by the caller that translated the packet.
type UnsupportedFieldError struct {
	Type   string
	Field  string
	Target string
}

func (e UnsupportedFieldError) Error() string {
	return fmt.Sprintf(
		"codec: field %q of type=%q unsupported by version=%s",
		e.Field,
		e.Type,
		e.Target,
	)
}
