/*
dto.go - Data Transfer Objects for --format json output

PURPOSE:
  Defines the JSON structures the calculator prints when asked for machine
  readable output. These types decouple the growth model from what scripts
  parse, so model fields can be renamed without breaking callers.

NAMING CONVENTION:
  - *DTO: one result
  - ErrorResponse: failure, mirrors the human error line

VALUES:
  Populations and ratios are unrounded float64. Rounding is a display concern
  and only happens in the human format. Time quantities serialise as
  {"value": 7, "unit": "day"}.

SEE ALSO:
  - reporter.go: builds and writes these types
  - units/quantity.go: TimeQuantity JSON shape
*/
package report

import (
	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/units"
)

// =============================================================================
// RESULT TYPES
// =============================================================================

// SpecDTO describes a growth configuration. GrowthRate.Value is a
// percentage, so 10% per day is {"value": 10, "unit": "day"}.
type SpecDTO struct {
	Model             string             `json:"model"`
	InitialPopulation float64            `json:"initial_population"`
	GrowthRate        units.TimeQuantity `json:"growth_rate"`
	Frequency         *float64           `json:"frequency,omitempty"`
}

// ProjectionDTO is the population after a duration.
type ProjectionDTO struct {
	Spec       SpecDTO            `json:"spec"`
	Duration   units.TimeQuantity `json:"duration"`
	Population float64            `json:"population"`
}

// TimeToReachDTO is the time needed to reach a target population.
type TimeToReachDTO struct {
	Spec   SpecDTO            `json:"spec"`
	Target float64            `json:"target"`
	Time   units.TimeQuantity `json:"time"`
}

// OutcomeDTO is one side of a comparison.
type OutcomeDTO struct {
	Spec       SpecDTO `json:"spec"`
	Population float64 `json:"population"`
}

// ComparisonDTO holds two projections over the same duration.
type ComparisonDTO struct {
	Duration   units.TimeQuantity `json:"duration"`
	A          OutcomeDTO         `json:"a"`
	B          OutcomeDTO         `json:"b"`
	Difference float64            `json:"difference"`
	Ratio      float64            `json:"ratio"`
}

// PointDTO is one row of a projection table.
type PointDTO struct {
	Elapsed    units.TimeQuantity `json:"elapsed"`
	Population float64            `json:"population"`
}

// SeriesDTO is a projection table.
type SeriesDTO struct {
	Spec   SpecDTO    `json:"spec"`
	Points []PointDTO `json:"points"`
}

// SweepPointDTO is the projection at one fission frequency.
type SweepPointDTO struct {
	Frequency  float64 `json:"frequency"`
	Population float64 `json:"population"`
	GapToLimit float64 `json:"gap_to_limit"`
}

// SweepDTO shows compound growth approaching the continuous limit.
type SweepDTO struct {
	Spec     SpecDTO            `json:"spec"`
	Duration units.TimeQuantity `json:"duration"`
	Limit    float64            `json:"limit"`
	Points   []SweepPointDTO    `json:"points"`
}

// UnitDTO describes one supported time unit.
type UnitDTO struct {
	Name    string  `json:"name"`
	Abbrev  string  `json:"abbrev"`
	Seconds float64 `json:"seconds"`
}

// ConversionDTO is a time quantity re-expressed in another unit.
type ConversionDTO struct {
	From units.TimeQuantity `json:"from"`
	To   units.TimeQuantity `json:"to"`
}

// ErrorResponse is written instead of a result when an operation fails.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toSpecDTO(s growth.Spec) SpecDTO {
	return SpecDTO{
		Model:             string(s.Model()),
		InitialPopulation: s.InitialPopulation,
		GrowthRate:        s.GrowthRate,
		Frequency:         s.Frequency,
	}
}

func toOutcomeDTO(o growth.Outcome) OutcomeDTO {
	return OutcomeDTO{Spec: toSpecDTO(o.Spec), Population: o.Population}
}

func toComparisonDTO(c growth.Comparison) ComparisonDTO {
	return ComparisonDTO{
		Duration:   c.Duration,
		A:          toOutcomeDTO(c.A),
		B:          toOutcomeDTO(c.B),
		Difference: c.Difference,
		Ratio:      c.Ratio,
	}
}

func toSeriesDTO(spec growth.Spec, points []growth.Point) SeriesDTO {
	out := SeriesDTO{Spec: toSpecDTO(spec), Points: make([]PointDTO, len(points))}
	for i, p := range points {
		out.Points[i] = PointDTO{Elapsed: p.Elapsed, Population: p.Population}
	}
	return out
}

func toSweepDTO(spec growth.Spec, duration units.TimeQuantity, sw growth.Sweep) SweepDTO {
	out := SweepDTO{
		Spec:     toSpecDTO(spec),
		Duration: duration,
		Limit:    sw.Limit,
		Points:   make([]SweepPointDTO, len(sw.Points)),
	}
	for i, p := range sw.Points {
		out.Points[i] = SweepPointDTO{Frequency: p.Frequency, Population: p.Population, GapToLimit: p.GapToLimit}
	}
	return out
}

func toUnitDTOs(list []units.Unit) []UnitDTO {
	out := make([]UnitDTO, len(list))
	for i, u := range list {
		out[i] = UnitDTO{Name: u.String(), Abbrev: u.Abbrev(), Seconds: u.Seconds()}
	}
	return out
}
