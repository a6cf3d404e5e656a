/*
Package growth implements the population growth models.

PURPOSE:
  Answers two questions about a population growing at a percentage rate:
  "how large will it be after this long?" (Project) and "how long until it
  reaches this size?" (TimeToReach). Both are closed-form and stateless.

MODELS:
  Naive (linear):
    The population gains a fixed fraction of its INITIAL size per unit of
    time. Nothing compounds.
      P(t) = P0 * (1 + r*t)

  Sophisticated (compound):
    Growth is applied in discrete "fission events", f per rate unit, each
    event adding r/f of the CURRENT size. This is compound interest.
      P(t) = P0 * (1 + r/f)^(f*t)
    As f grows without bound this tends to P0 * e^(r*t) (see sweep.go).

UNITS:
  The growth rate is a percentage per rate unit ("7% per day"); the
  frequency counts events per that same rate unit. Before evaluating, both
  are re-expressed per DURATION unit:
      rate'      = rate * seconds(duration unit) / seconds(rate unit)
      frequency' = f    * seconds(duration unit) / seconds(rate unit)
  so a duration of 2 weeks against "7% per day" behaves like 14 days.

INVERSE:
  Naive:         t = (target/P0 - 1) / r, rounded up to a whole rate unit
  Sophisticated: t = ln(target/P0) / (f * ln(1 + r/f)), rounded up to a
                 whole number of fission events
  Rounding up means Project(spec, TimeToReach(spec, target)) >= target.

EXAMPLE:
  rate := growth.PercentPer(10, units.Day)
  spec := growth.Compound(500, rate, 2)       // 2 events/day
  p, _ := growth.Project(spec, units.Days(5)) // 500 * 1.05^10 = 814.45

  t, _ := growth.TimeToReach(growth.Linear(100, rate), 200)
  // t == 10 days

SEE ALSO:
  - errors.go: error taxonomy
  - series.go, compare.go, sweep.go: output modes built on Project
  - units/unit.go: seconds-per-unit table
*/
package growth

import (
	"math"

	"github.com/warp/growth-engine/units"
)

// =============================================================================
// SPEC - What is growing, and how
// =============================================================================

// Model identifies which growth formula a Spec uses.
type Model string

const (
	ModelNaive         Model = "naive"
	ModelSophisticated Model = "sophisticated"
)

// Spec describes a growing population.
//
// GrowthRate.Value is a percentage (7 means 7%) per GrowthRate.Unit.
// Frequency is the number of fission events per GrowthRate.Unit; nil selects
// the naive model.
type Spec struct {
	InitialPopulation float64
	GrowthRate        units.TimeQuantity
	Frequency         *float64
}

// PercentPer builds a growth rate of percent per unit.
func PercentPer(percent float64, unit units.Unit) units.TimeQuantity {
	return units.New(percent, unit)
}

// Linear builds a naive-model spec.
func Linear(initial float64, rate units.TimeQuantity) Spec {
	return Spec{InitialPopulation: initial, GrowthRate: rate}
}

// Compound builds a sophisticated-model spec with frequency events per rate unit.
func Compound(initial float64, rate units.TimeQuantity, frequency float64) Spec {
	return Spec{InitialPopulation: initial, GrowthRate: rate, Frequency: &frequency}
}

func (s Spec) Model() Model {
	if s.Frequency == nil {
		return ModelNaive
	}
	return ModelSophisticated
}

// WithFrequency returns a copy of s using the sophisticated model.
func (s Spec) WithFrequency(frequency float64) Spec {
	s.Frequency = &frequency
	return s
}

// Naive returns a copy of s using the naive model.
func (s Spec) Naive() Spec {
	s.Frequency = nil
	return s
}

// WithPopulation returns a copy of s starting from initial.
func (s Spec) WithPopulation(initial float64) Spec {
	s.InitialPopulation = initial
	return s
}

func (s Spec) validate() error {
	if !isFinite(s.InitialPopulation) || s.InitialPopulation < 0 {
		return &InvalidQuantityError{Field: "initial population", Value: s.InitialPopulation}
	}
	if !s.GrowthRate.IsFinite() {
		return &InvalidQuantityError{Field: "growth rate", Value: s.GrowthRate.Value}
	}
	if !s.GrowthRate.Unit.Valid() {
		return &units.UnknownUnitError{Unit: s.GrowthRate.Unit}
	}
	if s.Frequency != nil {
		f := *s.Frequency
		if !(f > 0) || math.IsInf(f, 0) {
			return &InvalidFrequencyError{Frequency: f, PerUnit: s.GrowthRate.Unit}
		}
	}
	return nil
}

// =============================================================================
// FORWARD EVALUATION
// =============================================================================

// Project returns the population after duration has elapsed.
func Project(spec Spec, duration units.TimeQuantity) (float64, error) {
	if err := spec.validate(); err != nil {
		return 0, err
	}
	if spec.GrowthRate.Value < 0 {
		return 0, &InvalidQuantityError{Field: "growth rate", Value: spec.GrowthRate.Value}
	}
	if !duration.IsFinite() || duration.Value < 0 {
		return 0, &InvalidQuantityError{Field: "duration", Value: duration.Value}
	}

	// Rate units per duration unit.
	perDuration, err := units.Ratio(duration.Unit, spec.GrowthRate.Unit)
	if err != nil {
		return 0, err
	}

	p0 := spec.InitialPopulation
	r := spec.GrowthRate.Value * perDuration / 100
	t := duration.Value

	if spec.Frequency == nil {
		return finitePopulation(p0 + p0*r*t)
	}

	f := *spec.Frequency * perDuration
	if !(f > 0) || math.IsInf(f, 0) {
		return 0, &InvalidFrequencyError{Frequency: *spec.Frequency, PerUnit: spec.GrowthRate.Unit}
	}
	if t == 0 {
		return p0, nil
	}
	return finitePopulation(compound(p0, r/f, t*f))
}

// finitePopulation rejects a projection that overflowed float64.
func finitePopulation(p float64) (float64, error) {
	if !isFinite(p) {
		return 0, &InvalidQuantityError{Field: "projected population", Value: p}
	}
	return p, nil
}

// maxPowPeriods is the largest whole number of events compound raises by
// repeated multiplication. Beyond it the error of 1+rate would compound.
const maxPowPeriods = 1024

// compound evaluates p0 * (1 + rate)^periods. A small whole number of events
// uses math.Pow, so exact answers stay exact (100 doubled 3 times is 800).
// Otherwise the power is taken as exp(periods * log1p(rate)) so very small
// per-event rates keep their digits.
func compound(p0, rate, periods float64) float64 {
	if n, ok := nearWhole(periods); ok && n <= maxPowPeriods {
		return p0 * math.Pow(1+rate, n)
	}
	return p0 * math.Exp(periods*math.Log1p(rate))
}

// ProjectValues is Project for callers holding loose values instead of a Spec.
func ProjectValues(initial, rateValue float64, rateUnit units.Unit, frequency *float64, durationValue float64, durationUnit units.Unit) (float64, error) {
	spec := Spec{
		InitialPopulation: initial,
		GrowthRate:        units.New(rateValue, rateUnit),
		Frequency:         frequency,
	}
	return Project(spec, units.New(durationValue, durationUnit))
}

// =============================================================================
// INVERSE EVALUATION
// =============================================================================

// TimeToReach returns how long spec takes to reach target, in the growth
// rate's unit. The naive answer is rounded up to a whole rate unit; the
// sophisticated answer is rounded up to a whole number of fission events.
func TimeToReach(spec Spec, target float64) (units.TimeQuantity, error) {
	if err := spec.validate(); err != nil {
		return units.TimeQuantity{}, err
	}
	if !isFinite(target) || target < 0 {
		return units.TimeQuantity{}, &InvalidQuantityError{Field: "target population", Value: target}
	}

	p0 := spec.InitialPopulation
	rate := spec.GrowthRate
	unreachable := func(reason string) error {
		return &UnreachableTargetError{Initial: p0, Target: target, Rate: rate, Reason: reason}
	}

	switch {
	case target <= p0:
		return units.TimeQuantity{}, unreachable(ReasonAlreadyReached)
	case p0 <= 0:
		return units.TimeQuantity{}, unreachable(ReasonEmptyPopulation)
	case rate.Value <= 0:
		return units.TimeQuantity{}, unreachable(ReasonNoGrowth)
	}

	factor := target / p0
	if math.IsInf(factor, 0) {
		return units.TimeQuantity{}, &InvalidQuantityError{Field: "target population", Value: target}
	}
	r := rate.Value / 100

	if spec.Frequency == nil {
		t := (factor - 1) / r
		return firstReaching(spec, target, ceilWhole(t), 1)
	}

	f := *spec.Frequency
	events := math.Log(factor) / math.Log1p(r/f)
	return firstReaching(spec, target, ceilWhole(events), f)
}

// firstReaching returns n/per rate units, stepping n up when rounding left
// the projection for that time short of target. Steps double, so the search
// ends either on an answer or on a Project error once time overflows.
func firstReaching(spec Spec, target, n, per float64) (units.TimeQuantity, error) {
	for step := 1.0; ; step *= 2 {
		t := units.New(n/per, spec.GrowthRate.Unit)
		p, err := Project(spec, t)
		if err != nil {
			return units.TimeQuantity{}, err
		}
		if p >= target {
			return t, nil
		}
		n += step
	}
}

// TimeToReachIn is TimeToReach with the answer converted to unit.
func TimeToReachIn(spec Spec, target float64, unit units.Unit) (units.TimeQuantity, error) {
	t, err := TimeToReach(spec, target)
	if err != nil {
		return units.TimeQuantity{}, err
	}
	return t.In(unit)
}

// TimeToReachValues is TimeToReach for callers holding loose values.
func TimeToReachValues(initial, rateValue float64, rateUnit units.Unit, frequency *float64, target float64) (float64, units.Unit, error) {
	spec := Spec{
		InitialPopulation: initial,
		GrowthRate:        units.New(rateValue, rateUnit),
		Frequency:         frequency,
	}
	t, err := TimeToReach(spec, target)
	if err != nil {
		return 0, 0, err
	}
	return t.Value, t.Unit, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// wholeTolerance absorbs representation error in an exact answer, so that
// (2-1)/0.1 = 10.000000000000002 reports 10 rather than 11. A snap that lands
// short of the target is corrected by firstReaching.
const wholeTolerance = 1e-12

// ceilWhole rounds x up to an integer, snapping to the nearest integer when x
// is within wholeTolerance (relative) of it.
func ceilWhole(x float64) float64 {
	if n, ok := nearWhole(x); ok {
		return n
	}
	return math.Ceil(x)
}

// nearWhole reports the integer within wholeTolerance (relative) of x.
func nearWhole(x float64) (float64, bool) {
	nearest := math.Round(x)
	return nearest, math.Abs(x-nearest) <= wholeTolerance*math.Max(1, math.Abs(x))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
