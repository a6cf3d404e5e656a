/*
presets.go - Built-in population scenarios

PURPOSE:
  Ready-to-use starting points for common populations. A scenario file can
  name one with "preset" and override any field; the CLI lists them with
  `growthcalc presets`.

AVAILABLE PRESETS:
  bacteria  100 cells dividing every 20 minutes (300% per hour, 3 fissions
            per hour) for 8 hours
  rabbits   2 rabbits, 100% per month compounded monthly, for 2 years
  humans    8 billion people, 0.9% per year compounded yearly, for 50 years

EXAMPLE:
  sj, _ := factory.Preset("bacteria")
  sj.Duration = "12 hours"
  sc, err := factory.NewScenarioFactory().FromJSON(sj)

SEE ALSO:
  - scenario.go: schema and merge rules
*/
package factory

import "sort"

// =============================================================================
// COMMON POPULATIONS
// =============================================================================

// BacteriaPreset doubles every 20 minutes: (1 + 3/3)^3 = 8x per hour.
func BacteriaPreset() ScenarioJSON {
	return ScenarioJSON{
		ID:         "bacteria",
		Name:       "Bacterial culture",
		Mode:       string(ModeProject),
		Population: ptr(100),
		Rate:       &RateJSON{Percent: 300, Unit: "hour"},
		Frequency:  ptr(3),
		Duration:   "8 hours",
	}
}

// RabbitsPreset doubles every month.
func RabbitsPreset() ScenarioJSON {
	return ScenarioJSON{
		ID:         "rabbits",
		Name:       "Rabbit warren",
		Mode:       string(ModeProject),
		Population: ptr(2),
		Rate:       &RateJSON{Percent: 100, Unit: "month"},
		Frequency:  ptr(1),
		Duration:   "2 years",
	}
}

// HumansPreset is world population at a recent annual growth rate.
func HumansPreset() ScenarioJSON {
	return ScenarioJSON{
		ID:         "humans",
		Name:       "World population",
		Mode:       string(ModeProject),
		Population: ptr(8e9),
		Rate:       &RateJSON{Percent: 0.9, Unit: "year"},
		Frequency:  ptr(1),
		Duration:   "50 years",
	}
}

var presets = map[string]func() ScenarioJSON{
	"bacteria": BacteriaPreset,
	"rabbits":  RabbitsPreset,
	"humans":   HumansPreset,
}

// Preset returns a fresh copy of the named preset.
func Preset(name string) (ScenarioJSON, bool) {
	build, ok := presets[name]
	if !ok {
		return ScenarioJSON{}, false
	}
	return build(), true
}

// PresetNames returns the preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Presets returns every preset, sorted by name.
func Presets() []ScenarioJSON {
	names := PresetNames()
	out := make([]ScenarioJSON, len(names))
	for i, name := range names {
		out[i], _ = Preset(name)
	}
	return out
}

func ptr(v float64) *float64 {
	return &v
}
