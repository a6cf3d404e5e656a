/*
Package units provides the closed set of time units and the conversion
between them.

PURPOSE:
  Every time-denominated value in the calculator (growth-rate period,
  compounding period, projection duration) is a quantity tagged with a Unit.
  Before two such values are combined they are normalized to a common unit
  through a fixed seconds-per-unit table.

KEY CONCEPTS:
  - Unit: a closed enum; each member maps to a positive number of seconds
  - Convert: quantity * seconds(from) / seconds(to)
  - TimeQuantity: an immutable (value, unit) pair, see quantity.go

CALENDAR LENGTHS:
  year         = 365 days
  half-year    = year / 2
  quarter-year = year / 4
  month        = year / 12
  week         = 7 days

USAGE:
  hours, err := units.Convert(2, units.Day, units.Hour) // 48

  u, err := units.ParseUnit("qd") // units.QuarterDay

SEE ALSO:
  - quantity.go: TimeQuantity value type
  - errors.go: UnknownUnitError
  - growth/model.go: consumer of the conversion table
*/
package units

import (
	"strings"
)

// =============================================================================
// UNIT - Closed set of named time units
// =============================================================================

// Unit is a named time unit. The zero value is not a valid unit.
type Unit int

const (
	Second Unit = iota + 1
	Minute
	Hour
	TwoHour
	QuarterDay
	HalfDay
	Day
	Week
	Month
	QuarterYear
	HalfYear
	Year
)

const (
	secondsPerDay  = 86400.0
	secondsPerYear = 365 * secondsPerDay
)

type unitInfo struct {
	name    string
	abbrev  string
	seconds float64
}

// unitTable is indexed by Unit. Index 0 is the invalid zero value.
var unitTable = [...]unitInfo{
	{},
	Second:      {name: "second", abbrev: "s", seconds: 1},
	Minute:      {name: "minute", abbrev: "min", seconds: 60},
	Hour:        {name: "hour", abbrev: "h", seconds: 3600},
	TwoHour:     {name: "2-hour", abbrev: "2h", seconds: 7200},
	QuarterDay:  {name: "quarter-day", abbrev: "qd", seconds: secondsPerDay / 4},
	HalfDay:     {name: "half-day", abbrev: "hd", seconds: secondsPerDay / 2},
	Day:         {name: "day", abbrev: "d", seconds: secondsPerDay},
	Week:        {name: "week", abbrev: "w", seconds: 7 * secondsPerDay},
	Month:       {name: "month", abbrev: "m", seconds: secondsPerYear / 12},
	QuarterYear: {name: "quarter-year", abbrev: "qy", seconds: secondsPerYear / 4},
	HalfYear:    {name: "half-year", abbrev: "hy", seconds: secondsPerYear / 2},
	Year:        {name: "year", abbrev: "y", seconds: secondsPerYear},
}

// lookup resolves canonical names and abbreviations. Built once at init.
var lookup = func() map[string]Unit {
	m := make(map[string]Unit, 2*len(unitTable))
	for _, u := range SupportedUnits() {
		m[u.String()] = u
		m[u.Abbrev()] = u
	}
	return m
}()

// Valid reports whether u is a member of the closed unit set.
func (u Unit) Valid() bool { return u >= Second && u <= Year }

// Seconds returns the number of seconds in one u. Zero for invalid units.
func (u Unit) Seconds() float64 {
	if !u.Valid() {
		return 0
	}
	return unitTable[u].seconds
}

// Abbrev returns the short form used at the prompt ("d", "qy", "min", ...).
func (u Unit) Abbrev() string {
	if !u.Valid() {
		return ""
	}
	return unitTable[u].abbrev
}

func (u Unit) String() string {
	if !u.Valid() {
		return "unknown"
	}
	return unitTable[u].name
}

// Plural returns the display name for a count of n units.
func (u Unit) Plural(n float64) string {
	if n == 1 {
		return u.String()
	}
	return u.String() + "s"
}

// MarshalText lets units appear by name in JSON and YAML.
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, &UnknownUnitError{Unit: u}
	}
	return []byte(u.String()), nil
}

// UnmarshalText accepts anything ParseUnit accepts.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := ParseUnit(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// SupportedUnits returns every unit, smallest first.
func SupportedUnits() []Unit {
	out := make([]Unit, 0, int(Year))
	for u := Second; u <= Year; u++ {
		out = append(out, u)
	}
	return out
}

// ParseUnit resolves a unit from its name or abbreviation, case-insensitive.
// A trailing plural "s" is accepted ("days", "qds").
func ParseUnit(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := lookup[key]; ok {
		return u, nil
	}
	if strings.HasSuffix(key, "s") {
		if u, ok := lookup[strings.TrimSuffix(key, "s")]; ok {
			return u, nil
		}
	}
	return 0, &UnknownUnitError{Name: s}
}

// =============================================================================
// CONVERSION
// =============================================================================

// Convert re-expresses quantity, measured in from, in the unit to.
func Convert(quantity float64, from, to Unit) (float64, error) {
	if !from.Valid() {
		return 0, &UnknownUnitError{Unit: from}
	}
	if !to.Valid() {
		return 0, &UnknownUnitError{Unit: to}
	}
	if from == to {
		return quantity, nil
	}
	return quantity * from.Seconds() / to.Seconds(), nil
}

// Ratio returns how many to-units fit in one from-unit.
func Ratio(from, to Unit) (float64, error) {
	return Convert(1, from, to)
}
