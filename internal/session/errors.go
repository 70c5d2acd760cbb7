package session

import (
	"errors"
	"fmt"

	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/translate"
)

var (
	ErrSessionClosed   = errors.New("session: closed")
	ErrPendingOnClose  = errors.New("session: buffered packets discarded on close")
	ErrMissingResource = errors.New("session: chain, codec and fix engine are required")
)

// PacketError is a per-packet failure. The packet is dropped; the session stays open.
type PacketError struct {
	Direction Direction
	Type      string
	Source    string
	Target    string
	Err       error
}

func (e PacketError) Error() string {
	return fmt.Sprintf(
		"session: %s packet type=%s %s -> %s dropped: %v",
		e.Direction,
		e.Type,
		e.Source,
		e.Target,
		e.Err,
	)
}

func (e PacketError) Unwrap() error {
	return e.Err
}

// Kind names the error class for metrics and notices.
func Kind(err error) string {
	var (
		unknown        codec.UnknownPacketTypeError
		malformed      codec.MalformedPacketError
		unsupported    codec.UnsupportedFieldError
		untranslatable translate.UntranslatablePacketError
		incomplete     translate.IncompleteMergeError
	)
	switch {
	case errors.As(err, &unknown):
		return "unknown_packet"
	case errors.As(err, &malformed):
		return "malformed"
	case errors.As(err, &unsupported):
		return "unsupported_field"
	case errors.As(err, &incomplete):
		return "incomplete_merge"
	case errors.As(err, &untranslatable):
		return "untranslatable"
	case errors.Is(err, ErrPendingOnClose):
		return "pending_on_close"
	case errors.Is(err, ErrSessionClosed):
		return "closed"
	default:
		return "other"
	}
}
