package bridge

import (
	"errors"
	"fmt"

	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/session"
	"github.com/danmuck/verbridge/internal/translate"
	"github.com/danmuck/verbridge/internal/version"
)

var (
	ErrNotInitialized     = errors.New("bridge: not initialized")
	ErrAlreadyInitialized = errors.New("bridge: already initialized")
	ErrUnknownSession     = errors.New("bridge: unknown session")
)

// InitializationError is the first failure of Initialize. The process should exit.
type InitializationError struct {
	Stage  string
	Source string
	Err    error
}

func (e InitializationError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("bridge: initialize %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("bridge: initialize %s (%s): %v", e.Stage, e.Source, e.Err)
}

func (e InitializationError) Unwrap() error {
	return e.Err
}

// Fatal reports registration-time failures. These abort startup.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	var (
		initErr InitializationError
		dup     version.DuplicateVersionError
		late    version.LateRegistrationError
		rng     version.InvalidRangeError
		overlap fix.OverlappingFixRangeError
		invalid schema.ValidationError
	)
	return errors.As(err, &initErr) ||
		errors.As(err, &dup) ||
		errors.As(err, &late) ||
		errors.As(err, &rng) ||
		errors.As(err, &overlap) ||
		errors.As(err, &invalid) ||
		errors.Is(err, translate.ErrDuplicateStep) ||
		errors.Is(err, translate.ErrNotAdjacent) ||
		errors.Is(err, translate.ErrInvalidMerge) ||
		errors.Is(err, fix.ErrInvalidUnit)
}

// Recoverable reports failures scoped to one packet or one session. The
// process keeps running.
func Recoverable(err error) bool {
	if err == nil || Fatal(err) {
		return false
	}
	var (
		packetErr      session.PacketError
		malformed      codec.MalformedPacketError
		unknown        codec.UnknownPacketTypeError
		unsupported    codec.UnsupportedFieldError
		untranslatable translate.UntranslatablePacketError
		incomplete     translate.IncompleteMergeError
		noPath         translate.NoTransformPathError
	)
	return errors.As(err, &packetErr) ||
		errors.As(err, &malformed) ||
		errors.As(err, &unknown) ||
		errors.As(err, &unsupported) ||
		errors.As(err, &untranslatable) ||
		errors.As(err, &incomplete) ||
		errors.As(err, &noPath) ||
		errors.Is(err, version.ErrUnknownVersion) ||
		errors.Is(err, session.ErrSessionClosed)
}
