package growth

import "github.com/warp/growth-engine/units"

// Outcome is one side of a comparison.
type Outcome struct {
	Spec       Spec
	Population float64
}

// Comparison holds two specs projected over the same duration.
type Comparison struct {
	Duration units.TimeQuantity
	A        Outcome
	B        Outcome

	// Difference is B - A.
	Difference float64

	// Ratio is B / A; zero when A is zero or the ratio overflows.
	Ratio float64
}

// Compare projects a and b over duration.
func Compare(a, b Spec, duration units.TimeQuantity) (Comparison, error) {
	pa, err := Project(a, duration)
	if err != nil {
		return Comparison{}, err
	}
	pb, err := Project(b, duration)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{
		Duration:   duration,
		A:          Outcome{Spec: a, Population: pa},
		B:          Outcome{Spec: b, Population: pb},
		Difference: pb - pa,
	}
	if ratio := pb / pa; pa != 0 && isFinite(ratio) {
		c.Ratio = ratio
	}
	return c, nil
}

// CompareModels compares the naive reading of spec against the sophisticated
// one at frequency events per rate unit.
func CompareModels(spec Spec, frequency float64, duration units.TimeQuantity) (Comparison, error) {
	return Compare(spec.Naive(), spec.WithFrequency(frequency), duration)
}
