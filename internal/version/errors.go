package version

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownVersion = errors.New("version: unknown version")
	ErrInvalidVersion = errors.New("version: invalid version")
)

// DuplicateVersionError reports a registration whose ordinal or id is already taken.
type DuplicateVersionError struct {
	ID       string
	Ordinal  int
	Existing string
}

func (e DuplicateVersionError) Error() string {
	return fmt.Sprintf("version: duplicate version %q ordinal=%d (held by %q)", e.ID, e.Ordinal, e.Existing)
}

// InvalidRangeError reports a range whose low endpoint is newer than its high endpoint.
type InvalidRangeError struct {
	Low  string
	High string
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("version: invalid range low=%q high=%q", e.Low, e.High)
}

// LateRegistrationError reports a registration call made after the owning registry froze.
type LateRegistrationError struct {
	Registry string
	Item     string
}

func (e LateRegistrationError) Error() string {
	return fmt.Sprintf("%s: late registration of %q after freeze", e.Registry, e.Item)
}
