package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// TIME QUANTITY - Value with unit
// =============================================================================

// TimeQuantity is a number paired with a time unit. It is a value type:
// conversion returns a new quantity and never touches the receiver.
type TimeQuantity struct {
	Value float64 `json:"value" yaml:"value"`
	Unit  Unit    `json:"unit" yaml:"unit"`
}

func New(value float64, unit Unit) TimeQuantity { return TimeQuantity{Value: value, Unit: unit} }

func Seconds(v float64) TimeQuantity { return New(v, Second) }
func Hours(v float64) TimeQuantity   { return New(v, Hour) }
func Days(v float64) TimeQuantity    { return New(v, Day) }
func Weeks(v float64) TimeQuantity   { return New(v, Week) }
func Years(v float64) TimeQuantity   { return New(v, Year) }

func (q TimeQuantity) IsZero() bool                 { return q.Value == 0 }
func (q TimeQuantity) IsFinite() bool               { return !math.IsNaN(q.Value) && !math.IsInf(q.Value, 0) }
func (q TimeQuantity) Scale(f float64) TimeQuantity { return TimeQuantity{Value: q.Value * f, Unit: q.Unit} }

// In returns q expressed in unit.
func (q TimeQuantity) In(unit Unit) (TimeQuantity, error) {
	v, err := Convert(q.Value, q.Unit, unit)
	if err != nil {
		return TimeQuantity{}, err
	}
	return TimeQuantity{Value: v, Unit: unit}, nil
}

// Seconds returns the length of q in seconds.
func (q TimeQuantity) Seconds() (float64, error) {
	return Convert(q.Value, q.Unit, Second)
}

// Add returns q + other, in q's unit.
func (q TimeQuantity) Add(other TimeQuantity) (TimeQuantity, error) {
	o, err := other.In(q.Unit)
	if err != nil {
		return TimeQuantity{}, err
	}
	return TimeQuantity{Value: q.Value + o.Value, Unit: q.Unit}, nil
}

// Compare returns -1, 0 or 1 depending on whether q is shorter than, equal to
// or longer than other.
func (q TimeQuantity) Compare(other TimeQuantity) (int, error) {
	o, err := other.In(q.Unit)
	if err != nil {
		return 0, err
	}
	switch {
	case q.Value < o.Value:
		return -1, nil
	case q.Value > o.Value:
		return 1, nil
	default:
		return 0, nil
	}
}

func (q TimeQuantity) String() string {
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit.Plural(q.Value)
}

// ParseQuantity reads "<number> <unit>" ("7 days", "1.5 h"). A bare unit
// ("week") means one of that unit.
func ParseQuantity(s string) (TimeQuantity, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		u, err := ParseUnit(fields[0])
		if err != nil {
			return TimeQuantity{}, err
		}
		return New(1, u), nil
	case 2:
		v, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return TimeQuantity{}, fmt.Errorf("invalid amount %q: %w", fields[0], err)
		}
		u, err := ParseUnit(fields[1])
		if err != nil {
			return TimeQuantity{}, err
		}
		return New(v, u), nil
	default:
		return TimeQuantity{}, fmt.Errorf("invalid time amount %q: expected \"<number> <unit>\"", s)
	}
}
