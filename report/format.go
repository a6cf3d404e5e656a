package report

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/warp/growth-engine/config"
	"github.com/warp/growth-engine/units"
)

// Formatter turns model output into display strings. All rounding happens
// here, never in the model.
type Formatter struct {
	precision int32
	grouping  bool
	printer   *message.Printer
}

func NewFormatter(s config.Settings) Formatter {
	return Formatter{
		precision: int32(s.Precision),
		grouping:  s.Grouping,
		printer:   message.NewPrinter(s.Tag()),
	}
}

// Round rounds x half away from zero to places decimals.
func Round(x float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(places)
}

// Number formats x with the configured precision, grouping digits per locale
// when enabled.
func (f Formatter) Number(x float64) string {
	if s, ok := nonFinite(x); ok {
		return s
	}
	d := Round(x, f.precision)
	if !f.grouping {
		return d.StringFixed(f.precision)
	}
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(int(f.precision))))
}

// Exact formats x in full with trailing zeros trimmed: 0.5 -> "0.5".
func Exact(x float64) string {
	if s, ok := nonFinite(x); ok {
		return s
	}
	return decimal.NewFromFloat(x).String()
}

// Population formats a population. Populations are counted in whole
// individuals when the precision is zero.
func (f Formatter) Population(x float64) string {
	return f.Number(x)
}

// Percent formats a ratio as a percentage change, e.g. 1.086 -> "+8.60%".
func (f Formatter) Percent(ratio float64) string {
	pct := (ratio - 1) * 100
	if s, ok := nonFinite(pct); ok {
		return s
	}
	change := Round(pct, f.precision)
	sign := ""
	if change.IsPositive() {
		sign = "+"
	}
	return sign + change.StringFixed(f.precision) + "%"
}

// Quantity formats a time quantity, trimming trailing zeros: "7.5 days".
func (f Formatter) Quantity(q units.TimeQuantity) string {
	if s, ok := nonFinite(q.Value); ok {
		return s + " " + q.Unit.Plural(q.Value)
	}
	d := Round(q.Value, f.precision)
	v, _ := d.Float64()
	return d.String() + " " + q.Unit.Plural(v)
}

// Frequency formats a fission frequency against its rate unit.
func (f Formatter) Frequency(events float64, per units.Unit) string {
	return Exact(events) + " per " + per.String()
}

// nonFinite returns the display text for NaN and the infinities.
func nonFinite(x float64) (string, bool) {
	switch {
	case math.IsNaN(x):
		return "NaN", true
	case math.IsInf(x, 1):
		return "∞", true
	case math.IsInf(x, -1):
		return "-∞", true
	}
	return "", false
}
