package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/growth-engine/factory"
	"github.com/warp/growth-engine/session"
)

func (a *app) runCmd() *cobra.Command {
	var preset string
	cmd := &cobra.Command{
		Use:   "run [scenario-file-or-dir]",
		Short: "Evaluate scenario files",
		Long: `Evaluate a JSON or YAML scenario file, every scenario file in a directory,
or a built-in preset. Scenarios stop at the first failure.

  mode: project
  population: 100
  rate: {percent: 10, unit: day}
  frequency: 2
  duration: 10 weeks`,
		Example: `  growthcalc run culture.yaml
  growthcalc run scenarios/
  growthcalc run --preset bacteria`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(_ *cobra.Command, args []string) error {
			scenarios, err := a.loadScenarios(preset, args)
			if err != nil {
				return err
			}
			for _, sc := range scenarios {
				res, err := sc.Evaluate()
				if err != nil {
					return err
				}
				a.log.Info("scenario evaluated", "scenario", sc.ID, "mode", sc.Mode)
				if err := a.renderResult(res); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&preset, "preset", "", "run a built-in preset instead of a file")
	return cmd
}

func (a *app) loadScenarios(preset string, args []string) ([]*factory.Scenario, error) {
	switch {
	case preset != "" && len(args) > 0:
		return nil, usagef("give a scenario file or --preset, not both")
	case preset != "":
		sc, err := factory.NewScenarioFactory().FromJSON(factory.ScenarioJSON{Preset: preset})
		if err != nil {
			return nil, err
		}
		return []*factory.Scenario{sc}, nil
	case len(args) == 0:
		return nil, usagef("a scenario file or --preset is required")
	}
	return factory.NewLoader(a.fs).LoadAny(args[0])
}

func (a *app) renderResult(res factory.Result) error {
	sc := res.Scenario
	if err := a.report.Title(scenarioTitle(sc)); err != nil {
		return err
	}
	switch sc.Mode {
	case factory.ModeProject:
		return a.report.Projection(sc.Spec, sc.Duration, res.Population)
	case factory.ModeTimeTo:
		return a.report.TimeToReach(sc.Spec, sc.Target, res.Time)
	case factory.ModeCompare:
		return a.report.Comparison(res.Comparison)
	case factory.ModeTable:
		return a.report.Series(sc.Spec, res.Series)
	case factory.ModeSweep:
		return a.report.Sweep(sc.Spec, sc.Duration, res.Sweep)
	}
	return fmt.Errorf("unknown scenario mode %q", sc.Mode)
}

func scenarioTitle(sc *factory.Scenario) string {
	if sc.Name != "" {
		return sc.Name
	}
	return sc.ID
}

func (a *app) interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Open the interactive menu (the default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.interactive(cmd)
		},
	}
}

// interactive runs the menu on the command's streams. The menu shows its own
// errors, so anything returned here is a real failure.
func (a *app) interactive(cmd *cobra.Command) error {
	s := session.New(cmd.InOrStdin(), cmd.OutOrStdout(), a.settings, a.log)
	return s.Run(cmd.Context())
}
