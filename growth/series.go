package growth

import (
	"fmt"

	"github.com/warp/growth-engine/units"
)

// =============================================================================
// SERIES - Population at regular steps
// =============================================================================

// MaxSeriesPoints bounds the length of a series so a tiny step against a long
// duration fails instead of allocating without limit.
const MaxSeriesPoints = 100000

// Point is the population after Elapsed time.
type Point struct {
	Elapsed    units.TimeQuantity
	Population float64
}

// Series projects spec at 0, step, 2*step, ... up to duration. The last point
// is always exactly duration, even when step does not divide it. Elapsed
// times are reported in the duration's unit.
//
// Every point is evaluated from the initial population, so rounding never
// accumulates from one step to the next.
func Series(spec Spec, duration, step units.TimeQuantity) ([]Point, error) {
	if !duration.IsFinite() || duration.Value < 0 {
		return nil, &InvalidQuantityError{Field: "duration", Value: duration.Value}
	}
	s, err := step.In(duration.Unit)
	if err != nil {
		return nil, err
	}
	if !s.IsFinite() || s.Value <= 0 {
		return nil, fmt.Errorf("%w: %v must be positive", ErrInvalidStep, step)
	}

	steps := duration.Value / s.Value
	if steps+2 > MaxSeriesPoints {
		return nil, fmt.Errorf("%w: %v in steps of %v needs more than %d points", ErrInvalidStep, duration, step, MaxSeriesPoints)
	}
	n := int(steps)

	points := make([]Point, 0, n+2)
	for i := 0; i <= n; i++ {
		elapsed := units.New(float64(i)*s.Value, duration.Unit)
		if elapsed.Value > duration.Value {
			break
		}
		p, err := Project(spec, elapsed)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Elapsed: elapsed, Population: p})
	}

	if last := points[len(points)-1]; last.Elapsed.Value < duration.Value {
		p, err := Project(spec, duration)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{Elapsed: duration, Population: p})
	}
	return points, nil
}
