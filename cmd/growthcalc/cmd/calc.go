package cmd

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/session"
	"github.com/warp/growth-engine/units"
)

// =============================================================================
// SHARED FLAGS
// =============================================================================

// specFlags describe the population every calculation starts from.
type specFlags struct {
	population float64
	rate       string
	frequency  float64
}

func (f *specFlags) register(fs *pflag.FlagSet, withFrequency bool) {
	fs.Float64VarP(&f.population, "population", "p", 0, "initial population")
	fs.StringVarP(&f.rate, "rate", "r", "", `growth rate in percent per unit, e.g. "7 day"; a bare number uses the configured rate unit`)
	if withFrequency {
		fs.Float64VarP(&f.frequency, "frequency", "f", 0, "fission events per rate unit; omit for the naive model")
	}
}

// spec builds the spec. The frequency applies only when its flag was set.
func (a *app) spec(cmd *cobra.Command, f *specFlags) (growth.Spec, error) {
	if f.rate == "" {
		return growth.Spec{}, usagef("--rate is required")
	}
	rate, err := parseRate(f.rate, a.settings.DefaultRateUnit())
	if err != nil {
		return growth.Spec{}, err
	}
	spec := growth.Linear(f.population, growth.PercentPer(rate.Value, rate.Unit))
	if cmd.Flags().Changed("frequency") {
		spec = spec.WithFrequency(f.frequency)
	}
	return spec, nil
}

// parseRate reads "7 day", "7 d" or a bare "7" (per def).
func parseRate(s string, def units.Unit) (units.TimeQuantity, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return units.New(v, def), nil
	}
	q, err := units.ParseQuantity(strings.Replace(s, "%", "", 1))
	if err != nil {
		return units.TimeQuantity{}, usagef("--rate: %w", err)
	}
	return q, nil
}

func parseDuration(flag, s string) (units.TimeQuantity, error) {
	if s == "" {
		return units.TimeQuantity{}, usagef("--%s is required", flag)
	}
	q, err := units.ParseQuantity(s)
	if err != nil {
		return units.TimeQuantity{}, usagef("--%s: %w", flag, err)
	}
	return q, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

func (a *app) projectCmd() *cobra.Command {
	var (
		sf       specFlags
		duration string
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Population after a duration",
		Example: `  growthcalc project -p 100 -r "10 day" -d "10 weeks"
  growthcalc project -p 500 -r "10 day" -f 2 -d "5 days"`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			spec, err := a.spec(cmd, &sf)
			if err != nil {
				return err
			}
			d, err := parseDuration("duration", duration)
			if err != nil {
				return err
			}
			p, err := growth.Project(spec, d)
			if err != nil {
				return err
			}
			a.log.Info("projected", "model", spec.Model(), "population", p)
			return a.report.Projection(spec, d, p)
		}),
	}
	sf.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&duration, "duration", "d", "", `projection time, e.g. "10 weeks"`)
	return cmd
}

func (a *app) timeToCmd() *cobra.Command {
	var (
		sf     specFlags
		target float64
		unit   string
	)
	cmd := &cobra.Command{
		Use:   "time-to",
		Short: "Time until the population reaches a target",
		Long: `Time until the population reaches --target.

The naive answer is rounded up to a whole rate unit, the sophisticated one
to a whole number of fission events, so projecting for the answer always
reaches the target.`,
		Example: `  growthcalc time-to -p 100 -r "10 day" --target 200
  growthcalc time-to -p 100 -r "10 day" -f 1 --target 200 --unit hours`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			spec, err := a.spec(cmd, &sf)
			if err != nil {
				return err
			}
			out := a.settings.DefaultOutputUnit()
			if unit != "" {
				if out, err = units.ParseUnit(unit); err != nil {
					return err
				}
			}
			t, err := growth.TimeToReachIn(spec, target, out)
			if err != nil {
				return err
			}
			a.log.Info("time to target", "model", spec.Model(), "target", target, "time", t.String())
			return a.report.TimeToReach(spec, target, t)
		}),
	}
	sf.register(cmd.Flags(), true)
	cmd.Flags().Float64VarP(&target, "target", "t", 0, "target population")
	cmd.Flags().StringVarP(&unit, "unit", "u", "", "unit of the answer (default: configured output unit)")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var (
		sf       specFlags
		duration string
		freqA    float64
		freqB    float64
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two models over the same duration",
		Long: `Compare two models over the same duration.

Model A is naive unless --frequency-a is given. Model B is sophisticated
with --frequency-b fission events per rate unit (default 1).`,
		Example: `  growthcalc compare -p 100 -r "10 day" -d "10 days"
  growthcalc compare -p 100 -r "10 day" -d "10 days" --frequency-a 1 --frequency-b 365`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			spec, err := a.spec(cmd, &sf)
			if err != nil {
				return err
			}
			d, err := parseDuration("duration", duration)
			if err != nil {
				return err
			}
			first := spec.Naive()
			if cmd.Flags().Changed("frequency-a") {
				first = spec.WithFrequency(freqA)
			}
			c, err := growth.Compare(first, spec.WithFrequency(freqB), d)
			if err != nil {
				return err
			}
			a.log.Info("compared", "a", c.A.Population, "b", c.B.Population)
			return a.report.Comparison(c)
		}),
	}
	sf.register(cmd.Flags(), false)
	cmd.Flags().StringVarP(&duration, "duration", "d", "", "projection time")
	cmd.Flags().Float64Var(&freqA, "frequency-a", 0, "fission events per rate unit for model A (default: naive)")
	cmd.Flags().Float64Var(&freqB, "frequency-b", 1, "fission events per rate unit for model B")
	return cmd
}

func (a *app) tableCmd() *cobra.Command {
	var (
		sf       specFlags
		duration string
		step     string
	)
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Population at regular steps over a duration",
		Long: `Population at regular steps over a duration. The last row is always the
full duration. Without --step the duration is split into the configured
number of table rows.`,
		Example: `  growthcalc table -p 100 -r "10 day" -d "10 days" --step "1 day"`,
		Args:    cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			spec, err := a.spec(cmd, &sf)
			if err != nil {
				return err
			}
			d, err := parseDuration("duration", duration)
			if err != nil {
				return err
			}
			s := d.Scale(1 / float64(a.settings.TableRows))
			if step != "" {
				if s, err = parseDuration("step", step); err != nil {
					return err
				}
			}
			points, err := growth.Series(spec, d, s)
			if err != nil {
				return err
			}
			a.log.Info("tabulated", "rows", len(points))
			return a.report.Series(spec, points)
		}),
	}
	sf.register(cmd.Flags(), true)
	cmd.Flags().StringVarP(&duration, "duration", "d", "", "projection time")
	cmd.Flags().StringVarP(&step, "step", "s", "", `time between rows, e.g. "1 day"`)
	return cmd
}

func (a *app) sweepCmd() *cobra.Command {
	var (
		sf          specFlags
		duration    string
		frequencies []float64
		doublings   int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compound growth at rising fission frequencies",
		Long: `Project the sophisticated model at rising fission frequencies and show how
it approaches continuous growth, P0 * e^(r*t).`,
		Example: `  growthcalc sweep -p 100 -r "100 day" -d "1 day"
  growthcalc sweep -p 100 -r "100 day" -d "1 day" --doublings 12`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			spec, err := a.spec(cmd, &sf)
			if err != nil {
				return err
			}
			d, err := parseDuration("duration", duration)
			if err != nil {
				return err
			}
			freqs := frequencies
			if cmd.Flags().Changed("doublings") {
				if doublings < 1 || doublings > session.MaxDoublings {
					return usagef("--doublings %d out of range [1, %d]", doublings, session.MaxDoublings)
				}
				freqs = growth.DoublingFrequencies(doublings)
			}
			sw, err := growth.FrequencySweep(spec, d, freqs)
			if err != nil {
				return err
			}
			a.log.Info("swept", "points", len(sw.Points), "limit", sw.Limit)
			return a.report.Sweep(spec, d, sw)
		}),
	}
	sf.register(cmd.Flags(), false)
	cmd.Flags().StringVarP(&duration, "duration", "d", "", "projection time")
	cmd.Flags().Float64SliceVar(&frequencies, "frequencies", growth.DefaultSweepFrequencies, "fission events per rate unit to try")
	cmd.Flags().IntVar(&doublings, "doublings", 0, "try 1, 2, 4, ... with this many entries instead of --frequencies")
	return cmd
}
