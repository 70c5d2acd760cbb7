package wire

import "errors"

var (
	ErrShortBuffer     = errors.New("wire: short buffer")
	ErrVarIntTooLong   = errors.New("wire: varint too long")
	ErrPrefixOverflow  = errors.New("wire: length exceeds prefix width")
	ErrInvalidBool     = errors.New("wire: invalid bool value")
	ErrKindMismatch    = errors.New("wire: kind mismatch")
	ErrValueOutOfRange = errors.New("wire: value out of range for kind")
	ErrUnknownKind     = errors.New("wire: unknown kind")
)
