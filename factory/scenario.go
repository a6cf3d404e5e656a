/*
Package factory provides JSON/YAML to Go scenario conversion.

PURPOSE:
  Converts scenario definitions into growth.Spec values plus the question to
  ask of them. This lets calculations be scripted and versioned without
  driving the interactive menu by hand.

SCHEMA (JSON shown; YAML uses the same keys):
  {
    "id": "lab-culture",
    "name": "Lab culture, one week",
    "mode": "project",
    "preset": "bacteria",
    "population": 100,
    "rate": {"percent": 10, "unit": "day"},
    "frequency": 10,
    "duration": "7 days"
  }

MODES:
  project  population after duration
  time_to  time until target (optional output_unit)
  compare  frequency_a vs frequency_b over duration; a missing frequency_a
           means the naive model, a missing frequency_b falls back to
           frequency and then to 1
  table    population every step over duration
  sweep    population at each of frequencies over duration, plus the
           continuous limit

PRESETS:
  "preset" names an entry of Presets(). The preset's fields are used for
  every key the scenario leaves out.

USAGE:
  f := NewScenarioFactory()
  sc, err := f.ParseJSON(data)
  result, err := sc.Evaluate()

SEE ALSO:
  - loader.go: reading scenario files through afero
  - presets.go: built-in populations
  - growth/model.go: the model evaluated
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/units"
)

// ErrInvalidScenario wraps every structural problem with a scenario.
var ErrInvalidScenario = errors.New("invalid scenario")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the file representation of a scenario.
type ScenarioJSON struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Mode        string    `json:"mode" yaml:"mode"`
	Preset      string    `json:"preset,omitempty" yaml:"preset,omitempty"`
	Population  *float64  `json:"population,omitempty" yaml:"population,omitempty"`
	Rate        *RateJSON `json:"rate,omitempty" yaml:"rate,omitempty"`
	Frequency   *float64  `json:"frequency,omitempty" yaml:"frequency,omitempty"` // per rate unit
	Duration    string    `json:"duration,omitempty" yaml:"duration,omitempty"`   // "7 days"
	Target      *float64  `json:"target,omitempty" yaml:"target,omitempty"`
	OutputUnit  string    `json:"output_unit,omitempty" yaml:"output_unit,omitempty"`
	FrequencyA  *float64  `json:"frequency_a,omitempty" yaml:"frequency_a,omitempty"`
	FrequencyB  *float64  `json:"frequency_b,omitempty" yaml:"frequency_b,omitempty"`
	Step        string    `json:"step,omitempty" yaml:"step,omitempty"`
	Frequencies []float64 `json:"frequencies,omitempty" yaml:"frequencies,omitempty"`
}

// RateJSON is a growth rate in percent per unit.
type RateJSON struct {
	Percent float64 `json:"percent" yaml:"percent"`
	Unit    string  `json:"unit" yaml:"unit"`
}

// =============================================================================
// DOMAIN TYPES
// =============================================================================

// Mode is the question a scenario asks.
type Mode string

const (
	ModeProject Mode = "project"
	ModeTimeTo  Mode = "time_to"
	ModeCompare Mode = "compare"
	ModeTable   Mode = "table"
	ModeSweep   Mode = "sweep"
)

// Scenario is a parsed, validated scenario.
type Scenario struct {
	ID   string
	Name string
	Mode Mode
	Spec growth.Spec

	Duration units.TimeQuantity // project, compare, table, sweep

	Target     float64    // time_to
	OutputUnit units.Unit // time_to; zero means the rate unit

	FrequencyA *float64 // compare
	FrequencyB float64  // compare

	Step units.TimeQuantity // table

	Frequencies []float64 // sweep
}

// Result holds the answer to a scenario. Only the fields of its mode are set.
type Result struct {
	Scenario   *Scenario
	Population float64            // project
	Time       units.TimeQuantity // time_to
	Comparison growth.Comparison  // compare
	Series     []growth.Point     // table
	Sweep      growth.Sweep       // sweep
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// ScenarioFactory converts scenario files to Scenarios.
type ScenarioFactory struct{}

// NewScenarioFactory creates a new scenario factory.
func NewScenarioFactory() *ScenarioFactory {
	return &ScenarioFactory{}
}

// ParseJSON parses a JSON document into a Scenario.
func (f *ScenarioFactory) ParseJSON(data []byte) (*Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return nil, fmt.Errorf("failed to parse scenario JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// ParseYAML parses a YAML document into a Scenario.
func (f *ScenarioFactory) ParseYAML(data []byte) (*Scenario, error) {
	var sj ScenarioJSON
	if err := yaml.Unmarshal(data, &sj); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON validates sj and converts it to a Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (*Scenario, error) {
	if sj.Preset != "" {
		base, ok := Preset(sj.Preset)
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %v)", ErrInvalidScenario, sj.Preset, PresetNames())
		}
		sj = merge(base, sj)
	}

	sc := &Scenario{ID: sj.ID, Name: sj.Name, Mode: Mode(sj.Mode)}
	switch sc.Mode {
	case ModeProject, ModeTimeTo, ModeCompare, ModeTable, ModeSweep:
	case "":
		return nil, fmt.Errorf("%w: mode is required", ErrInvalidScenario)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidScenario, sj.Mode)
	}

	spec, err := parseSpec(sj)
	if err != nil {
		return nil, err
	}
	sc.Spec = spec

	if sc.Mode != ModeTimeTo {
		if sc.Duration, err = parseQuantity("duration", sj.Duration); err != nil {
			return nil, err
		}
	}

	switch sc.Mode {
	case ModeTimeTo:
		if sj.Target == nil {
			return nil, fmt.Errorf("%w: target is required for mode %s", ErrInvalidScenario, sc.Mode)
		}
		sc.Target = *sj.Target
		if sj.OutputUnit != "" {
			if sc.OutputUnit, err = units.ParseUnit(sj.OutputUnit); err != nil {
				return nil, fmt.Errorf("%w: output_unit: %w", ErrInvalidScenario, err)
			}
		}

	case ModeCompare:
		sc.FrequencyA = sj.FrequencyA
		sc.FrequencyB = 1
		switch {
		case sj.FrequencyB != nil:
			sc.FrequencyB = *sj.FrequencyB
		case sj.Frequency != nil:
			sc.FrequencyB = *sj.Frequency
		}

	case ModeTable:
		if sc.Step, err = parseQuantity("step", sj.Step); err != nil {
			return nil, err
		}

	case ModeSweep:
		sc.Frequencies = sj.Frequencies
		if len(sc.Frequencies) == 0 {
			sc.Frequencies = growth.DefaultSweepFrequencies
		}
	}

	return sc, nil
}

// ToJSON converts a Scenario back to its file representation.
func (f *ScenarioFactory) ToJSON(sc *Scenario) ScenarioJSON {
	pop := sc.Spec.InitialPopulation
	sj := ScenarioJSON{
		ID:         sc.ID,
		Name:       sc.Name,
		Mode:       string(sc.Mode),
		Population: &pop,
		Rate: &RateJSON{
			Percent: sc.Spec.GrowthRate.Value,
			Unit:    sc.Spec.GrowthRate.Unit.String(),
		},
		Frequency: sc.Spec.Frequency,
	}
	if sc.Mode != ModeTimeTo {
		sj.Duration = sc.Duration.String()
	}

	switch sc.Mode {
	case ModeTimeTo:
		target := sc.Target
		sj.Target = &target
		if sc.OutputUnit.Valid() {
			sj.OutputUnit = sc.OutputUnit.String()
		}
	case ModeCompare:
		b := sc.FrequencyB
		sj.FrequencyA = sc.FrequencyA
		sj.FrequencyB = &b
	case ModeTable:
		sj.Step = sc.Step.String()
	case ModeSweep:
		sj.Frequencies = sc.Frequencies
	}
	return sj
}

// =============================================================================
// EVALUATION
// =============================================================================

// Evaluate answers the scenario's question.
func (sc *Scenario) Evaluate() (Result, error) {
	res := Result{Scenario: sc}
	var err error

	switch sc.Mode {
	case ModeProject:
		res.Population, err = growth.Project(sc.Spec, sc.Duration)

	case ModeTimeTo:
		unit := sc.OutputUnit
		if !unit.Valid() {
			unit = sc.Spec.GrowthRate.Unit
		}
		res.Time, err = growth.TimeToReachIn(sc.Spec, sc.Target, unit)

	case ModeCompare:
		a := sc.Spec.Naive()
		if sc.FrequencyA != nil {
			a = sc.Spec.WithFrequency(*sc.FrequencyA)
		}
		res.Comparison, err = growth.Compare(a, sc.Spec.WithFrequency(sc.FrequencyB), sc.Duration)

	case ModeTable:
		res.Series, err = growth.Series(sc.Spec, sc.Duration, sc.Step)

	case ModeSweep:
		res.Sweep, err = growth.FrequencySweep(sc.Spec, sc.Duration, sc.Frequencies)

	default:
		err = fmt.Errorf("%w: unknown mode %q", ErrInvalidScenario, sc.Mode)
	}

	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", sc.label(), err)
	}
	return res, nil
}

func (sc *Scenario) label() string {
	switch {
	case sc.ID != "":
		return sc.ID
	case sc.Name != "":
		return sc.Name
	}
	return string(sc.Mode)
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseSpec(sj ScenarioJSON) (growth.Spec, error) {
	if sj.Population == nil {
		return growth.Spec{}, fmt.Errorf("%w: population is required", ErrInvalidScenario)
	}
	if sj.Rate == nil {
		return growth.Spec{}, fmt.Errorf("%w: rate is required", ErrInvalidScenario)
	}
	unit, err := units.ParseUnit(sj.Rate.Unit)
	if err != nil {
		return growth.Spec{}, fmt.Errorf("%w: rate: %w", ErrInvalidScenario, err)
	}

	spec := growth.Linear(*sj.Population, growth.PercentPer(sj.Rate.Percent, unit))
	if sj.Frequency != nil {
		spec = spec.WithFrequency(*sj.Frequency)
	}
	return spec, nil
}

func parseQuantity(field, s string) (units.TimeQuantity, error) {
	if s == "" {
		return units.TimeQuantity{}, fmt.Errorf("%w: %s is required", ErrInvalidScenario, field)
	}
	q, err := units.ParseQuantity(s)
	if err != nil {
		return units.TimeQuantity{}, fmt.Errorf("%w: %s: %w", ErrInvalidScenario, field, err)
	}
	return q, nil
}

// merge fills every field sj leaves unset from base.
func merge(base, sj ScenarioJSON) ScenarioJSON {
	out := base
	out.Preset = sj.Preset
	if sj.ID != "" {
		out.ID = sj.ID
	}
	if sj.Name != "" {
		out.Name = sj.Name
	}
	if sj.Mode != "" {
		out.Mode = sj.Mode
	}
	if sj.Population != nil {
		out.Population = sj.Population
	}
	if sj.Rate != nil {
		out.Rate = sj.Rate
	}
	if sj.Frequency != nil {
		out.Frequency = sj.Frequency
	}
	if sj.Duration != "" {
		out.Duration = sj.Duration
	}
	if sj.Target != nil {
		out.Target = sj.Target
	}
	if sj.OutputUnit != "" {
		out.OutputUnit = sj.OutputUnit
	}
	if sj.FrequencyA != nil {
		out.FrequencyA = sj.FrequencyA
	}
	if sj.FrequencyB != nil {
		out.FrequencyB = sj.FrequencyB
	}
	if sj.Step != "" {
		out.Step = sj.Step
	}
	if len(sj.Frequencies) > 0 {
		out.Frequencies = sj.Frequencies
	}
	return out
}
