package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/growth-engine/config"
	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/units"
)

func plainSettings() config.Settings {
	s := config.Default()
	s.Style = config.StylePlain
	s.Grouping = false
	return s
}

func newPlain(buf *bytes.Buffer) *Reporter {
	return New(buf, plainSettings())
}

// =============================================================================
// FORMATTER
// =============================================================================

func TestFormatter_Number(t *testing.T) {
	f := NewFormatter(plainSettings())

	assert.Equal(t, "1700.00", f.Number(1700))
	assert.Equal(t, "814.45", f.Number(814.4547))
	assert.Equal(t, "-3.50", f.Number(-3.499))
	assert.Equal(t, "∞", f.Number(math.Inf(1)))
}

func TestFormatter_PrecisionZeroRoundsHalfAwayFromZero(t *testing.T) {
	s := plainSettings()
	s.Precision = 0
	f := NewFormatter(s)

	assert.Equal(t, "3", f.Number(2.5))
	assert.Equal(t, "1700", f.Number(1700))
}

func TestFormatter_Grouping(t *testing.T) {
	s := plainSettings()
	s.Grouping = true

	f := NewFormatter(s)
	assert.Equal(t, "1,234,567.89", f.Number(1234567.891))

	s.Locale = "de"
	f = NewFormatter(s)
	assert.Equal(t, "1.234.567,89", f.Number(1234567.891))
}

func TestFormatter_Percent(t *testing.T) {
	f := NewFormatter(plainSettings())

	assert.Equal(t, "+8.60%", f.Percent(1.086))
	assert.Equal(t, "0.00%", f.Percent(1))
	assert.Equal(t, "-50.00%", f.Percent(0.5))
}

func TestFormatter_Quantity(t *testing.T) {
	f := NewFormatter(plainSettings())

	assert.Equal(t, "7 days", f.Quantity(units.Days(7)))
	assert.Equal(t, "1 day", f.Quantity(units.Days(1)))
	assert.Equal(t, "7.5 days", f.Quantity(units.Days(7.5)))
	assert.Equal(t, "0.33 weeks", f.Quantity(units.Weeks(1.0/3)))
}

func TestFormatter_NonFinite(t *testing.T) {
	f := NewFormatter(plainSettings())

	assert.Equal(t, "∞", f.Percent(math.Inf(1)))
	assert.Equal(t, "NaN", f.Percent(math.NaN()))
	assert.Equal(t, "∞", f.Percent(math.MaxFloat64))
	assert.Equal(t, "∞ days", f.Quantity(units.Days(math.Inf(1))))
	assert.Equal(t, "-∞ per day", f.Frequency(math.Inf(-1), units.Day))
	assert.Equal(t, "∞", Exact(math.Inf(1)))
	assert.Equal(t, "0.5", Exact(0.5))
}

func TestComparison_NonFiniteDoesNotPanic(t *testing.T) {
	// GIVEN a comparison whose second side overflowed
	spec := growth.Linear(100, growth.PercentPer(math.Inf(1), units.Second))
	c := growth.Comparison{
		Duration:   units.Years(1),
		A:          growth.Outcome{Spec: spec.Naive(), Population: 3.1536001e9},
		B:          growth.Outcome{Spec: spec.WithFrequency(1), Population: math.Inf(1)},
		Difference: math.Inf(1),
		Ratio:      math.Inf(1),
	}

	// WHEN it is rendered for humans
	var buf bytes.Buffer
	require.NotPanics(t, func() {
		require.NoError(t, newPlain(&buf).Comparison(c))
	})

	// THEN the infinite values read as such
	assert.Contains(t, buf.String(), "Difference: ∞ (∞)")
	assert.Contains(t, buf.String(), "∞% per second")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Population Growth Calculator", TitleCase("population growth calculator"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatHuman, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

// =============================================================================
// HUMAN OUTPUT
// =============================================================================

func TestReporter_Projection(t *testing.T) {
	var buf bytes.Buffer
	spec := growth.Linear(100, growth.PercentPer(10, units.Day))

	require.NoError(t, newPlain(&buf).Projection(spec, units.Weeks(10), 1700))

	out := buf.String()
	assert.Contains(t, out, "Population after 10 weeks: 1700.00")
	assert.Contains(t, out, "100.00 individuals, 10% per day, linear")
}

func TestReporter_TimeToReach(t *testing.T) {
	var buf bytes.Buffer
	spec := growth.Compound(100, growth.PercentPer(10, units.Day), 10)

	require.NoError(t, newPlain(&buf).TimeToReach(spec, 259, units.Days(10)))

	out := buf.String()
	assert.Contains(t, out, "Time to reach 259.00: 10 days")
	assert.Contains(t, out, "10 fissions per day")
}

func TestReporter_Comparison(t *testing.T) {
	var buf bytes.Buffer
	spec := growth.Linear(100, growth.PercentPer(10, units.Day))
	c, err := growth.CompareModels(spec, 1, units.Days(10))
	require.NoError(t, err)

	require.NoError(t, newPlain(&buf).Comparison(c))

	out := buf.String()
	assert.Contains(t, out, "After 10 days")
	assert.Contains(t, out, "naive")
	assert.Contains(t, out, "sophisticated")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "259.37")
	assert.Contains(t, out, "Difference: 59.37")
}

func TestReporter_Series(t *testing.T) {
	var buf bytes.Buffer
	spec := growth.Linear(100, growth.PercentPer(10, units.Day))
	points, err := growth.Series(spec, units.Days(2), units.Days(1))
	require.NoError(t, err)

	require.NoError(t, newPlain(&buf).Series(spec, points))

	out := buf.String()
	for _, want := range []string{"Elapsed", "Population", "0 days", "1 day", "2 days", "100.00", "110.00", "120.00"} {
		assert.Contains(t, out, want)
	}
}

func TestReporter_Sweep(t *testing.T) {
	var buf bytes.Buffer
	spec := growth.Linear(100, growth.PercentPer(100, units.Day))
	sw, err := growth.FrequencySweep(spec, units.Days(1), []float64{1, 2})
	require.NoError(t, err)

	require.NoError(t, newPlain(&buf).Sweep(spec, units.Days(1), sw))

	out := buf.String()
	assert.Contains(t, out, "1 per day")
	assert.Contains(t, out, "225.00")
	assert.Contains(t, out, "Continuous limit: 271.83")
}

func TestReporter_UnitsAndConversion(t *testing.T) {
	var buf bytes.Buffer
	r := newPlain(&buf)

	require.NoError(t, r.Units(units.SupportedUnits()))
	require.NoError(t, r.Conversion(units.Days(7), units.Weeks(1)))

	out := buf.String()
	assert.Contains(t, out, "31536000")
	assert.Contains(t, out, "qy")
	assert.Contains(t, out, "7 days = 1 week")
}

func TestReporter_TextHelpers(t *testing.T) {
	var buf bytes.Buffer
	r := newPlain(&buf)

	require.NoError(t, r.Title("population growth"))
	require.NoError(t, r.Header("results"))
	require.NoError(t, r.Success("Selected day"))

	assert.Equal(t, "\nPopulation Growth\n\nRESULTS\nSelected day\n", buf.String())
}

func TestReporter_Error(t *testing.T) {
	var buf bytes.Buffer
	err := &growth.InvalidQuantityError{Field: "initial population", Value: -1}

	require.NoError(t, newPlain(&buf).Error(err))
	assert.True(t, strings.HasPrefix(buf.String(), "Invalid. "))

	buf.Reset()
	require.NoError(t, newPlain(&buf).Error(nil))
	assert.Empty(t, buf.String())
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

func TestReporter_JSONProjection(t *testing.T) {
	var buf bytes.Buffer
	r := newPlain(&buf).WithFormat(FormatJSON)
	spec := growth.Compound(100, growth.PercentPer(10, units.Day), 10)

	require.NoError(t, r.Projection(spec, units.Days(10), 259.37))

	var got ProjectionDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "sophisticated", got.Spec.Model)
	assert.Equal(t, 100.0, got.Spec.InitialPopulation)
	assert.Equal(t, units.Day, got.Spec.GrowthRate.Unit)
	assert.Equal(t, 10.0, got.Spec.GrowthRate.Value)
	require.NotNil(t, got.Spec.Frequency)
	assert.Equal(t, 10.0, *got.Spec.Frequency)
	assert.Equal(t, units.Days(10), got.Duration)
	assert.Equal(t, 259.37, got.Population)
	assert.Contains(t, buf.String(), `"unit": "day"`)
}

func TestReporter_JSONSkipsText(t *testing.T) {
	var buf bytes.Buffer
	r := newPlain(&buf).WithFormat(FormatJSON)

	require.NoError(t, r.Title("x"))
	require.NoError(t, r.Header("x"))
	require.NoError(t, r.Success("x"))
	assert.Empty(t, buf.String())
}

func TestReporter_JSONError(t *testing.T) {
	tests := []struct {
		err  error
		kind string
	}{
		{&growth.UnreachableTargetError{Reason: growth.ReasonNoGrowth}, "unreachable_target"},
		{&growth.InvalidFrequencyError{Frequency: 0, PerUnit: units.Day}, "invalid_frequency"},
		{&units.UnknownUnitError{Name: "fortnight"}, "unknown_unit"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, newPlain(&buf).WithFormat(FormatJSON).Error(tt.err))

			var got ErrorResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.kind, got.Error)
			assert.Equal(t, tt.err.Error(), got.Details)
		})
	}
}

func TestReporter_JSONSeriesAndUnits(t *testing.T) {
	var buf bytes.Buffer
	r := newPlain(&buf).WithFormat(FormatJSON)
	spec := growth.Linear(100, growth.PercentPer(10, units.Day))
	points, err := growth.Series(spec, units.Days(2), units.Days(1))
	require.NoError(t, err)

	require.NoError(t, r.Series(spec, points))
	var series SeriesDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &series))
	require.Len(t, series.Points, 3)
	assert.InDelta(t, 120, series.Points[2].Population, 1e-9)

	buf.Reset()
	require.NoError(t, r.Units(units.SupportedUnits()))
	var list []UnitDTO
	require.NoError(t, json.Unmarshal(buf.Bytes(), &list))
	require.Len(t, list, 12)
	assert.Equal(t, UnitDTO{Name: "second", Abbrev: "s", Seconds: 1}, list[0])
}
