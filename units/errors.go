package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnit is returned when a unit is not part of the closed set.
var ErrUnknownUnit = errors.New("unknown unit")

// UnknownUnitError carries the offending unit, either as an out-of-range
// enum value or as the text that failed to parse.
type UnknownUnitError struct {
	Unit Unit
	Name string
}

func (e *UnknownUnitError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown unit %q (expected one of: %s)", e.Name, strings.Join(Names(), ", "))
	}
	return fmt.Sprintf("unknown unit %d", int(e.Unit))
}

func (e *UnknownUnitError) Unwrap() error {
	return ErrUnknownUnit
}

// Names returns the canonical names of every supported unit.
func Names() []string {
	all := SupportedUnits()
	names := make([]string, len(all))
	for i, u := range all {
		names[i] = u.String()
	}
	return names
}
