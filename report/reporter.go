/*
reporter.go - Writes calculator results for people or scripts

PURPOSE:
  Every command and the interactive session hand their results to a
  Reporter. The Reporter decides how they look: styled text and tables for
  people, JSON objects for scripts. The growth model never formats anything.

FORMATS:
  human  lipgloss styles and tables, numbers rounded per config.Settings
  json   one JSON document per result, numbers unrounded (see dto.go)

USAGE:
  r := report.New(os.Stdout, settings)
  r.Projection(spec, units.Days(7), population)

  r = r.WithFormat(report.FormatJSON)
  r.Error(err)

SEE ALSO:
  - format.go: number formatting
  - styles.go: colors
  - dto.go: JSON shapes
*/
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/warp/growth-engine/config"
	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/units"
)

// Format selects how results are written.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "human" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatHuman, "":
		return FormatHuman, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q: expected %q or %q", s, FormatHuman, FormatJSON)
}

// Reporter writes results to one writer.
type Reporter struct {
	w        io.Writer
	format   Format
	settings config.Settings
	fmt      Formatter
	styles   Styles
}

// New returns a human-format reporter writing to w.
func New(w io.Writer, s config.Settings) *Reporter {
	return &Reporter{
		w:        w,
		format:   FormatHuman,
		settings: s,
		fmt:      NewFormatter(s),
		styles:   NewStyles(w, s.Colored()),
	}
}

// WithFormat returns a copy of r writing in f.
func (r *Reporter) WithFormat(f Format) *Reporter {
	c := *r
	c.format = f
	return &c
}

func (r *Reporter) Format() Format            { return r.format }
func (r *Reporter) Settings() config.Settings { return r.settings }
func (r *Reporter) Formatter() Formatter      { return r.fmt }
func (r *Reporter) Styles() Styles            { return r.styles }
func (r *Reporter) Writer() io.Writer         { return r.w }
func (r *Reporter) isJSON() bool              { return r.format == FormatJSON }

// =============================================================================
// TEXT
// =============================================================================

// Title prints a blank line then s in title case. JSON output skips it.
func (r *Reporter) Title(s string) error {
	if r.isJSON() {
		return nil
	}
	return r.printf("\n%s\n", r.styles.Title.Render(TitleCase(s)))
}

// Header prints a blank line then s in upper case. JSON output skips it.
func (r *Reporter) Header(s string) error {
	if r.isJSON() {
		return nil
	}
	return r.printf("\n%s\n", r.styles.Header.Render(strings.ToUpper(s)))
}

// Success prints a confirmation line. JSON output skips it.
func (r *Reporter) Success(s string) error {
	if r.isJSON() {
		return nil
	}
	return r.printf("%s\n", r.styles.Success.Render(s))
}

// Error reports err. Input errors and failures are written the same way;
// the caller decides the exit status.
func (r *Reporter) Error(err error) error {
	if err == nil {
		return nil
	}
	if r.isJSON() {
		resp := ErrorResponse{Error: errorKind(err), Details: err.Error()}
		return writeJSON(r.w, resp)
	}
	return r.printf("%s\n", r.styles.Error.Render("Invalid. "+capitalize(err.Error())+"."))
}

// =============================================================================
// RESULTS
// =============================================================================

// Projection reports the population after duration.
func (r *Reporter) Projection(spec growth.Spec, duration units.TimeQuantity, population float64) error {
	if r.isJSON() {
		return writeJSON(r.w, ProjectionDTO{Spec: toSpecDTO(spec), Duration: duration, Population: population})
	}
	return r.printf("%s\n%s %s\n",
		r.styles.Muted.Render(r.Describe(spec)),
		fmt.Sprintf("Population after %s:", r.fmt.Quantity(duration)),
		r.fmt.Population(population),
	)
}

// TimeToReach reports how long spec takes to reach target.
func (r *Reporter) TimeToReach(spec growth.Spec, target float64, t units.TimeQuantity) error {
	if r.isJSON() {
		return writeJSON(r.w, TimeToReachDTO{Spec: toSpecDTO(spec), Target: target, Time: t})
	}
	return r.printf("%s\nTime to reach %s: %s\n",
		r.styles.Muted.Render(r.Describe(spec)),
		r.fmt.Population(target),
		r.fmt.Quantity(t),
	)
}

// Comparison reports two projections side by side.
func (r *Reporter) Comparison(c growth.Comparison) error {
	if r.isJSON() {
		return writeJSON(r.w, toComparisonDTO(c))
	}
	rows := [][]string{
		{string(c.A.Spec.Model()), r.Describe(c.A.Spec), r.fmt.Population(c.A.Population)},
		{string(c.B.Spec.Model()), r.Describe(c.B.Spec), r.fmt.Population(c.B.Population)},
	}
	change := "n/a"
	if c.Ratio != 0 {
		change = r.fmt.Percent(c.Ratio)
	}
	return r.printf("After %s\n%s\nDifference: %s (%s)\n",
		r.fmt.Quantity(c.Duration),
		r.table([]string{"Model", "Growth", "Population"}, rows),
		r.fmt.Number(c.Difference),
		change,
	)
}

// Series reports a projection table.
func (r *Reporter) Series(spec growth.Spec, points []growth.Point) error {
	if r.isJSON() {
		return writeJSON(r.w, toSeriesDTO(spec, points))
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{r.fmt.Quantity(p.Elapsed), r.fmt.Population(p.Population)}
	}
	return r.printf("%s\n%s\n",
		r.styles.Muted.Render(r.Describe(spec)),
		r.table([]string{"Elapsed", "Population"}, rows),
	)
}

// Sweep reports compound growth at rising frequencies against the
// continuous limit.
func (r *Reporter) Sweep(spec growth.Spec, duration units.TimeQuantity, sw growth.Sweep) error {
	if r.isJSON() {
		return writeJSON(r.w, toSweepDTO(spec, duration, sw))
	}
	rows := make([][]string, len(sw.Points))
	for i, p := range sw.Points {
		rows[i] = []string{
			r.fmt.Frequency(p.Frequency, spec.GrowthRate.Unit),
			r.fmt.Population(p.Population),
			r.fmt.Number(p.GapToLimit),
		}
	}
	return r.printf("After %s\n%s\nContinuous limit: %s\n",
		r.fmt.Quantity(duration),
		r.table([]string{"Fissions", "Population", "Gap to limit"}, rows),
		r.fmt.Population(sw.Limit),
	)
}

// Units lists the supported time units.
func (r *Reporter) Units(list []units.Unit) error {
	if r.isJSON() {
		return writeJSON(r.w, toUnitDTOs(list))
	}
	rows := make([][]string, len(list))
	for i, u := range list {
		rows[i] = []string{u.String(), u.Abbrev(), Exact(u.Seconds())}
	}
	return r.printf("%s\n", r.table([]string{"Unit", "Abbrev", "Seconds"}, rows))
}

// Conversion reports from re-expressed as to.
func (r *Reporter) Conversion(from, to units.TimeQuantity) error {
	if r.isJSON() {
		return writeJSON(r.w, ConversionDTO{From: from, To: to})
	}
	return r.printf("%s = %s\n", r.fmt.Quantity(from), r.fmt.Quantity(to))
}

// Describe summarises spec in one line, e.g.
// "100 individuals, 10% per day, 10 fissions per day".
func (r *Reporter) Describe(spec growth.Spec) string {
	percent := Exact(spec.GrowthRate.Value)
	s := fmt.Sprintf("%s individuals, %s%% per %s",
		r.fmt.Population(spec.InitialPopulation), percent, spec.GrowthRate.Unit)
	if spec.Frequency == nil {
		return s + ", linear"
	}
	return s + ", " + strings.Replace(r.fmt.Frequency(*spec.Frequency, spec.GrowthRate.Unit), " per ", " fissions per ", 1)
}

// =============================================================================
// HELPERS
// =============================================================================

func (r *Reporter) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.Heading
			}
			if col == len(headers)-1 {
				return r.styles.Cell.Align(lipgloss.Right)
			}
			return r.styles.Cell
		})
	return t.Render()
}

func (r *Reporter) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(r.w, format, args...)
	return err
}

func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// errorKind maps err to a stable identifier for JSON output.
func errorKind(err error) string {
	switch {
	case errors.Is(err, growth.ErrInvalidFrequency):
		return "invalid_frequency"
	case errors.Is(err, growth.ErrUnreachableTarget):
		return "unreachable_target"
	case errors.Is(err, growth.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, growth.ErrInvalidStep):
		return "invalid_step"
	case errors.Is(err, units.ErrUnknownUnit):
		return "unknown_unit"
	}
	return "error"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
