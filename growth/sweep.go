package growth

import (
	"math"

	"github.com/warp/growth-engine/units"
)

// DefaultSweepFrequencies are fission events per rate unit, rising by
// orders of magnitude.
var DefaultSweepFrequencies = []float64{1, 2, 4, 10, 100, 1000, 10000, 100000, 1000000}

// SweepPoint is the projection at one fission frequency.
type SweepPoint struct {
	Frequency  float64
	Population float64

	// GapToLimit is ContinuousLimit minus Population; it shrinks towards zero
	// as Frequency grows.
	GapToLimit float64
}

// Sweep is the result of FrequencySweep.
type Sweep struct {
	Points []SweepPoint
	Limit  float64
}

// FrequencySweep projects spec over duration once per frequency, showing the
// approach to continuous growth. Any frequency already on spec is ignored.
func FrequencySweep(spec Spec, duration units.TimeQuantity, frequencies []float64) (Sweep, error) {
	limit, err := ContinuousLimit(spec, duration)
	if err != nil {
		return Sweep{}, err
	}

	sweep := Sweep{Limit: limit, Points: make([]SweepPoint, 0, len(frequencies))}
	for _, f := range frequencies {
		p, err := Project(spec.WithFrequency(f), duration)
		if err != nil {
			return Sweep{}, err
		}
		sweep.Points = append(sweep.Points, SweepPoint{Frequency: f, Population: p, GapToLimit: limit - p})
	}
	return sweep, nil
}

// ContinuousLimit returns P0 * e^(r*t), the value the sophisticated model
// approaches as the fission frequency grows without bound. With P0 = 100,
// 100% per day and one day, this is 100e.
func ContinuousLimit(spec Spec, duration units.TimeQuantity) (float64, error) {
	naive := spec.Naive()
	if err := naive.validate(); err != nil {
		return 0, err
	}
	if spec.GrowthRate.Value < 0 {
		return 0, &InvalidQuantityError{Field: "growth rate", Value: spec.GrowthRate.Value}
	}
	if !duration.IsFinite() || duration.Value < 0 {
		return 0, &InvalidQuantityError{Field: "duration", Value: duration.Value}
	}
	perDuration, err := units.Ratio(duration.Unit, spec.GrowthRate.Unit)
	if err != nil {
		return 0, err
	}
	r := spec.GrowthRate.Value * perDuration / 100
	return finitePopulation(spec.InitialPopulation * math.Exp(r*duration.Value))
}

// DoublingFrequencies returns 1, 2, 4, ... with n entries.
func DoublingFrequencies(n int) []float64 {
	out := make([]float64, 0, max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, math.Ldexp(1, i))
	}
	return out
}
