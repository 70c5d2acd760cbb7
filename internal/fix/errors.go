package fix

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidUnit = errors.New("fix: invalid unit")
)

// OverlappingFixRangeError reports a registration whose range intersects an
// existing unit of the same domain.
type OverlappingFixRangeError struct {
	Domain   Domain
	Unit     string
	Range    Range
	Existing string
	Held     Range
}

func (e OverlappingFixRangeError) Error() string {
	return fmt.Sprintf(
		"fix: domain=%s unit %q range %s overlaps %q range %s",
		e.Domain,
		e.Unit,
		e.Range,
		e.Existing,
		e.Held,
	)
}
