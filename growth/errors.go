/*
errors.go - Error types for the growth model

PURPOSE:
  All model failures in one place. Input errors are detected before any
  arithmetic runs; the one check made afterwards is a projection too large
  for float64, reported as an InvalidQuantityError rather than +Inf.

ERROR CATEGORIES:
  1. Frequency errors   - non-positive compounding frequency
  2. Reachability errors - target already met, or no growth to reach it
  3. Quantity errors    - negative or non-finite population, rate, duration,
                          or a projected population that overflows
  Unit errors live in the units package (units.ErrUnknownUnit).

USAGE:
  if errors.Is(err, growth.ErrUnreachableTarget) {
      var ut *growth.UnreachableTargetError
      errors.As(err, &ut)
      fmt.Println("cannot reach", ut.Target, ":", ut.Reason)
  }

SEE ALSO:
  - model.go: Project and TimeToReach
  - units/errors.go: UnknownUnitError
*/
package growth

import (
	"errors"
	"fmt"

	"github.com/warp/growth-engine/units"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFrequency is returned when a compounding frequency is zero,
	// negative or not a number.
	ErrInvalidFrequency = errors.New("invalid compounding frequency")

	// ErrUnreachableTarget is returned when a target population can never be
	// reached in finite time, or is already met.
	ErrUnreachableTarget = errors.New("unreachable target population")

	// ErrInvalidQuantity is returned for negative or non-finite inputs.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidStep is returned when a series step is not positive.
	ErrInvalidStep = errors.New("invalid series step")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidFrequencyError reports the frequency that was rejected. PerUnit is
// the growth-rate unit the frequency was expressed against.
type InvalidFrequencyError struct {
	Frequency float64
	PerUnit   units.Unit
}

func (e *InvalidFrequencyError) Error() string {
	return fmt.Sprintf("invalid compounding frequency %v per %s: must be positive", e.Frequency, e.PerUnit)
}

func (e *InvalidFrequencyError) Unwrap() error {
	return ErrInvalidFrequency
}

// Reasons an UnreachableTargetError can carry.
const (
	ReasonAlreadyReached  = "target_already_reached"
	ReasonNoGrowth        = "no_growth"
	ReasonEmptyPopulation = "empty_population"
)

// UnreachableTargetError provides details about why a target cannot be reached.
type UnreachableTargetError struct {
	Initial float64
	Target  float64
	Rate    units.TimeQuantity
	Reason  string
}

func (e *UnreachableTargetError) Error() string {
	switch e.Reason {
	case ReasonAlreadyReached:
		return fmt.Sprintf("target %v is not above initial population %v", e.Target, e.Initial)
	case ReasonNoGrowth:
		return fmt.Sprintf("growth rate %v%% per %s never reaches target %v", e.Rate.Value, e.Rate.Unit, e.Target)
	case ReasonEmptyPopulation:
		return fmt.Sprintf("initial population %v cannot grow to %v", e.Initial, e.Target)
	default:
		return fmt.Sprintf("target %v unreachable from %v", e.Target, e.Initial)
	}
}

func (e *UnreachableTargetError) Unwrap() error {
	return ErrUnreachableTarget
}

// InvalidQuantityError names the offending field and value.
type InvalidQuantityError struct {
	Field string
	Value float64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid %s: %v (must be finite and non-negative)", e.Field, e.Value)
}

func (e *InvalidQuantityError) Unwrap() error {
	return ErrInvalidQuantity
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInputError returns true if the error is due to invalid caller input, so
// the caller should re-prompt rather than give up.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrUnreachableTarget) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidStep) ||
		errors.Is(err, units.ErrUnknownUnit)
}
