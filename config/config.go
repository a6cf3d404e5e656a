/*
Package config holds the presentation settings of the calculator.

PURPOSE:
  The growth model itself has no settings. Everything here shapes how
  results are shown: rounding precision, colored or plain output, default
  units offered at the prompt, digit grouping. Settings are passed
  explicitly into report functions; there is no package-level state.

SOURCES (later wins):
  1. Default()
  2. config file (.toml, .yaml, .yml or .json), when a path is given
  3. GROWTH_* environment variables

USAGE:
  s, err := config.Load("growthcalc.toml")
  if err != nil {
      return err
  }
  r := report.New(os.Stdout, s)

SEE ALSO:
  - report/format.go: consumer of Precision, Locale, Grouping
  - cmd/growthcalc/cmd/root.go: --config flag
*/
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/text/language"

	"github.com/warp/growth-engine/units"
)

// Output styles.
const (
	StyleColor = "color"
	StylePlain = "plain"
)

// MaxPrecision is the most decimal places a result is shown with.
const MaxPrecision = 12

// Settings controls presentation only.
type Settings struct {
	Precision  int    `toml:"precision" yaml:"precision" json:"precision" env:"GROWTH_PRECISION" env-description:"decimal places shown for populations"`
	Style      string `toml:"style" yaml:"style" json:"style" env:"GROWTH_STYLE" env-description:"color or plain"`
	RateUnit   string `toml:"rate_unit" yaml:"rate_unit" json:"rate_unit" env:"GROWTH_RATE_UNIT" env-description:"default growth-rate unit"`
	OutputUnit string `toml:"output_unit" yaml:"output_unit" json:"output_unit" env:"GROWTH_OUTPUT_UNIT" env-description:"unit time-to-target answers are shown in"`
	Locale     string `toml:"locale" yaml:"locale" json:"locale" env:"GROWTH_LOCALE" env-description:"BCP 47 tag used for digit grouping"`
	Grouping   bool   `toml:"grouping" yaml:"grouping" json:"grouping" env:"GROWTH_GROUPING" env-description:"group digits in large numbers"`
	TableRows  int    `toml:"table_rows" yaml:"table_rows" json:"table_rows" env:"GROWTH_TABLE_ROWS" env-description:"default rows in a projection table"`
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Precision:  2,
		Style:      StyleColor,
		RateUnit:   units.Day.String(),
		OutputUnit: units.Day.String(),
		Locale:     "en",
		Grouping:   true,
		TableRows:  10,
	}
}

// Load reads settings from path (if non-empty) and the environment, then
// validates them.
func Load(path string) (Settings, error) {
	s := Default()
	if path != "" {
		if err := cleanenv.ReadConfig(path, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to read config from environment: %w", err)
	}
	s.Style = strings.ToLower(strings.TrimSpace(s.Style))
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks every field.
func (s Settings) Validate() error {
	if s.Precision < 0 || s.Precision > MaxPrecision {
		return fmt.Errorf("precision %d out of range [0, %d]", s.Precision, MaxPrecision)
	}
	if s.Style != StyleColor && s.Style != StylePlain {
		return fmt.Errorf("style %q must be %q or %q", s.Style, StyleColor, StylePlain)
	}
	if _, err := units.ParseUnit(s.RateUnit); err != nil {
		return fmt.Errorf("rate_unit: %w", err)
	}
	if _, err := units.ParseUnit(s.OutputUnit); err != nil {
		return fmt.Errorf("output_unit: %w", err)
	}
	if _, err := language.Parse(s.Locale); err != nil {
		return fmt.Errorf("locale %q: %w", s.Locale, err)
	}
	if s.TableRows < 1 {
		return fmt.Errorf("table_rows must be at least 1, got %d", s.TableRows)
	}
	return nil
}

// DefaultRateUnit resolves RateUnit. Settings are validated on Load, so an
// unparsable value falls back to days.
func (s Settings) DefaultRateUnit() units.Unit {
	return parseOr(s.RateUnit, units.Day)
}

// DefaultOutputUnit resolves OutputUnit the same way.
func (s Settings) DefaultOutputUnit() units.Unit {
	return parseOr(s.OutputUnit, units.Day)
}

// Tag resolves Locale, falling back to English.
func (s Settings) Tag() language.Tag {
	tag, err := language.Parse(s.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

func (s Settings) Colored() bool { return s.Style == StyleColor }

// Encode writes s as TOML, the format `growthcalc config` prints.
func Encode(w io.Writer, s Settings) error {
	return toml.NewEncoder(w).Encode(s)
}

// Usage describes every environment variable Load honours.
func Usage() (string, error) {
	var s Settings
	return cleanenv.GetDescription(&s, nil)
}

func parseOr(name string, fallback units.Unit) units.Unit {
	u, err := units.ParseUnit(name)
	if err != nil {
		return fallback
	}
	return u
}
