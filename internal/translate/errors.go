package translate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/verbridge/internal/protocol/schema"
)

var (
	ErrNotAdjacent     = errors.New("translate: step versions are not adjacent")
	ErrDuplicateStep   = errors.New("translate: step already registered")
	ErrVersionMismatch = errors.New("translate: packet version does not match chain endpoint")
	ErrInvalidMerge    = errors.New("translate: invalid merge declaration")
)

// NoTransformPathError reports a chain that cannot be built because a hop is missing.
type NoTransformPathError struct {
	Native string
	Target string
	From   string
	To     string
	Reason string
}

func (e NoTransformPathError) Error() string {
	return fmt.Sprintf(
		"translate: no transform path %s -> %s: missing hop %s -> %s (%s)",
		e.Native,
		e.Target,
		e.From,
		e.To,
		e.Reason,
	)
}

// UntranslatablePacketError reports a packet that a hop has no rule for, or whose
// rule failed. Err is nil when no rule exists.
type UntranslatablePacketError struct {
	Type      string
	Direction schema.Direction
	From      string
	To        string
	Err       error
}

func (e UntranslatablePacketError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf(
			"translate: no rule for %s packet type=%q on hop %s -> %s",
			e.Direction,
			e.Type,
			e.From,
			e.To,
		)
	}
	return fmt.Sprintf(
		"translate: %s packet type=%q failed on hop %s -> %s: %v",
		e.Direction,
		e.Type,
		e.From,
		e.To,
		e.Err,
	)
}

func (e UntranslatablePacketError) Unwrap() error {
	return e.Err
}

// IncompleteMergeError reports buffered fan-in members discarded because the group
// was interrupted and the members had no single-packet rule.
type IncompleteMergeError struct {
	Types []string
	From  string
	To    string
	Cause error
}

func (e IncompleteMergeError) Error() string {
	return fmt.Sprintf(
		"translate: incomplete merge on hop %s -> %s discarded [%s]: %v",
		e.From,
		e.To,
		strings.Join(e.Types, ","),
		e.Cause,
	)
}

func (e IncompleteMergeError) Unwrap() error {
	return e.Cause
}
