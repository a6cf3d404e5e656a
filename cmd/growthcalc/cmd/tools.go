package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/warp/growth-engine/config"
	"github.com/warp/growth-engine/factory"
	"github.com/warp/growth-engine/report"
	"github.com/warp/growth-engine/units"
)

func (a *app) convertCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "convert <value> <from> <to>",
		Short:   "Re-express a time quantity in another unit",
		Example: `  growthcalc convert 2 weeks days`,
		Args:    cobra.ExactArgs(3),
		RunE: a.run(func(_ *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return usagef("invalid amount %q: %w", args[0], err)
			}
			from, err := units.ParseUnit(args[1])
			if err != nil {
				return err
			}
			to, err := units.ParseUnit(args[2])
			if err != nil {
				return err
			}
			q, err := units.New(v, from).In(to)
			if err != nil {
				return err
			}
			return a.report.Conversion(units.New(v, from), q)
		}),
	}
}

func (a *app) unitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List supported time units",
		Args:  cobra.NoArgs,
		RunE: a.run(func(_ *cobra.Command, _ []string) error {
			return a.report.Units(units.SupportedUnits())
		}),
	}
}

func (a *app) configCmd() *cobra.Command {
	var env bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings as TOML",
		Long: `Print the effective settings as TOML, after applying the config file and
GROWTH_* environment variables. With --env, list the variables instead.`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if env {
				text, err := config.Usage()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, text)
				return err
			}
			if a.report.Format() == report.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a.settings)
			}
			return config.Encode(out, a.settings)
		}),
	}
	cmd.Flags().BoolVar(&env, "env", false, "list the environment variables read")
	return cmd
}

func (a *app) presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "Print the built-in scenarios",
		Long: `Print the built-in scenarios as YAML. Any of them can be used as the base of
a scenario file with "preset: <name>", or run directly with
"growthcalc run --preset <name>".`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if a.report.Format() == report.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(factory.Presets())
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			for _, p := range factory.Presets() {
				if err := enc.Encode(p); err != nil {
					return err
				}
			}
			return enc.Close()
		}),
	}
}
