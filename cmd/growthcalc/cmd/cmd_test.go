package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/report"
)

// execute runs the command tree on fs with args and returns stdout.
func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GROWTH_STYLE", "plain")

	var out bytes.Buffer
	root := NewRootCmd(fs)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	err := root.Execute()
	return out.String(), err
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, afero.NewMemMapFs(), "", args...)
	require.NoError(t, err, out)
	return out
}

// =============================================================================
// CALCULATIONS
// =============================================================================

func TestProject_Naive(t *testing.T) {
	out := run(t, "project", "-p", "100", "-r", "10 day", "-d", "10 weeks")

	assert.Contains(t, out, "Population after 10 weeks: 800.00")
	assert.Contains(t, out, "linear")
}

func TestProject_Sophisticated(t *testing.T) {
	// 100 * (1 + 1/2)^(2*1)
	out := run(t, "project", "-p", "100", "-r", "100 day", "-f", "2", "-d", "1 day")

	assert.Contains(t, out, "Population after 1 day: 225.00")
	assert.Contains(t, out, "2 fissions per day")
}

func TestProject_BareRateUsesConfiguredUnit(t *testing.T) {
	t.Setenv("GROWTH_RATE_UNIT", "week")
	out := run(t, "project", "-p", "100", "-r", "10%", "-d", "1 week")

	assert.Contains(t, out, "110.00")
}

func TestProject_Grouping(t *testing.T) {
	out := run(t, "project", "-p", "1000000", "-r", "10 day", "-d", "1 day")

	assert.Contains(t, out, "1,100,000.00")
}

func TestTimeTo(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"naive", []string{"-p", "100", "-r", "10 day", "-t", "200"}, "Time to reach 200.00: 10 days"},
		{"sophisticated", []string{"-p", "100", "-r", "10 day", "-f", "1", "-t", "200"}, "Time to reach 200.00: 8 days"},
		{"in hours", []string{"-p", "100", "-r", "10 day", "-f", "1", "-t", "200", "-u", "h"}, "Time to reach 200.00: 192 hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, append([]string{"time-to"}, tt.args...)...)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestCompare(t *testing.T) {
	out := run(t, "compare", "-p", "100", "-r", "100 day", "-d", "1 day", "--frequency-b", "2")

	assert.Contains(t, out, "After 1 day")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "225.00")
	assert.Contains(t, out, "Difference: 25.00 (+12.50%)")
}

func TestTable(t *testing.T) {
	out := run(t, "table", "-p", "100", "-r", "10 day", "-d", "10 days", "-s", "5 days")

	for _, want := range []string{"Elapsed", "0 days", "5 days", "10 days", "100.00", "150.00", "200.00"} {
		assert.Contains(t, out, want)
	}
}

func TestTable_DefaultRows(t *testing.T) {
	t.Setenv("GROWTH_TABLE_ROWS", "2")
	out := run(t, "table", "-p", "100", "-r", "10 day", "-d", "10 days")

	assert.Contains(t, out, "5 days")
	assert.NotContains(t, out, "1 day ")
}

func TestSweep(t *testing.T) {
	out := run(t, "sweep", "-p", "100", "-r", "100 day", "-d", "1 day", "--frequencies", "1,2")

	assert.Contains(t, out, "1 per day")
	assert.Contains(t, out, "2 per day")
	assert.Contains(t, out, "225.00")
	assert.Contains(t, out, "Continuous limit: 271.83")
}

func TestSweep_Doublings(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "",
		"--format", "json", "sweep", "-p", "100", "-r", "100 day", "-d", "1 day", "--doublings", "4")
	require.NoError(t, err)

	var sw report.SweepDTO
	require.NoError(t, json.Unmarshal([]byte(out), &sw))
	require.Len(t, sw.Points, 4)
	assert.Equal(t, 8.0, sw.Points[3].Frequency)
}

// =============================================================================
// TOOLS
// =============================================================================

func TestConvert(t *testing.T) {
	out := run(t, "convert", "2", "weeks", "days")

	assert.Contains(t, out, "2 weeks = 14 days")
}

func TestUnits(t *testing.T) {
	out := run(t, "units")

	for _, want := range []string{"second", "quarter-day", "qd", "year", "31536000"} {
		assert.Contains(t, out, want)
	}
}

func TestConfig(t *testing.T) {
	out := run(t, "config")
	assert.Contains(t, out, "precision = 2")
	assert.Contains(t, out, `style = "plain"`)

	out = run(t, "config", "--env")
	assert.Contains(t, out, "GROWTH_PRECISION")
}

func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "growth.toml")
	require.NoError(t, os.WriteFile(path, []byte("precision = 0\ngrouping = false\n"), 0o644))

	out := run(t, "--config", path, "project", "-p", "1000000", "-r", "10 day", "-d", "1 day")

	assert.Contains(t, out, "1100000")
	assert.NotContains(t, out, "1100000.00")
}

func TestConfig_Invalid(t *testing.T) {
	t.Setenv("GROWTH_PRECISION", "99")
	_, err := execute(t, afero.NewMemMapFs(), "", "units")

	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestPresets(t *testing.T) {
	out := run(t, "presets")

	for _, name := range []string{"id: bacteria", "id: humans", "id: rabbits"} {
		assert.Contains(t, out, name)
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestRun_File(t *testing.T) {
	fs := afero.NewMemMapFs()
	doc := "name: ten weeks\nmode: project\npopulation: 100\nrate: {percent: 10, unit: day}\nduration: 10 weeks\n"
	require.NoError(t, afero.WriteFile(fs, "/s/culture.yaml", []byte(doc), 0o644))

	out, err := execute(t, fs, "", "run", "/s/culture.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "Ten Weeks")
	assert.Contains(t, out, "Population after 10 weeks: 800.00")
}

func TestRun_Dir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/s/a.json",
		[]byte(`{"mode":"time_to","population":100,"rate":{"percent":10,"unit":"day"},"target":200}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/s/b.yaml",
		[]byte("mode: table\npopulation: 100\nrate: {percent: 10, unit: day}\nduration: 10 days\nstep: 5 days\n"), 0o644))

	out, err := execute(t, fs, "", "run", "/s")
	require.NoError(t, err)

	assert.Contains(t, out, "Time to reach 200.00: 10 days")
	assert.Contains(t, out, "150.00")
	assert.Less(t, strings.Index(out, "Time to reach"), strings.Index(out, "150.00"), "files run in name order")
}

func TestRun_Preset(t *testing.T) {
	out := run(t, "run", "--preset", "bacteria")

	assert.Contains(t, out, "Bacterial Culture")
	assert.Contains(t, out, "1,677,721,600.00")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"nothing to run", []string{"run"}},
		{"file and preset", []string{"run", "/s/x.json", "--preset", "bacteria"}},
		{"unknown preset", []string{"run", "--preset", "dragons"}},
		{"missing file", []string{"run", "/s/missing.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, afero.NewMemMapFs(), "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, out, "Invalid.")
		})
	}
}

// =============================================================================
// OUTPUT AND ERRORS
// =============================================================================

func TestFormatJSON(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "",
		"--format", "json", "project", "-p", "100", "-r", "10 day", "-d", "10 weeks")
	require.NoError(t, err)

	var got report.ProjectionDTO
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "naive", got.Spec.Model)
	assert.InDelta(t, 800.0, got.Population, 1e-9)
}

func TestFormatJSON_Error(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "",
		"--format", "json", "time-to", "-p", "100", "-r", "10 day", "-t", "50")
	require.Error(t, err)

	var got report.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "unreachable_target", got.Error)
}

func TestUnknownFormat(t *testing.T) {
	_, err := execute(t, afero.NewMemMapFs(), "", "--format", "xml", "units")

	require.Error(t, err)
	assert.Equal(t, 1, ExitCode(err))
}

func TestInputErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"target already reached", []string{"time-to", "-p", "100", "-r", "10 day", "-t", "50"}, growth.ErrUnreachableTarget},
		{"zero frequency", []string{"project", "-p", "100", "-r", "10 day", "-f", "0", "-d", "1 day"}, growth.ErrInvalidFrequency},
		{"negative population", []string{"project", "-p=-1", "-r", "10 day", "-d", "1 day"}, growth.ErrInvalidQuantity},
		{"zero step", []string{"table", "-p", "100", "-r", "10 day", "-d", "1 day", "-s", "0 days"}, growth.ErrInvalidStep},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a calculation the model rejects
			// WHEN it runs
			out, err := execute(t, afero.NewMemMapFs(), "", tt.args...)

			// THEN the error is shown once and maps to exit status 2
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 2, ExitCode(err))
			assert.Equal(t, 1, strings.Count(out, "Invalid."))

			var shown *reportedError
			assert.True(t, errors.As(err, &shown))
		})
	}
}

func TestUnknownUnitIsInputError(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "", "convert", "2", "fortnights", "days")

	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, out, "fortnights")
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing rate", []string{"project", "-p", "100", "-d", "1 day"}},
		{"empty rate", []string{"project", "-p", "100", "-r", "", "-d", "1 day"}},
		{"rate not a number", []string{"project", "-p", "100", "-r", "abc", "-d", "1 day"}},
		{"duration not a number", []string{"project", "-p", "100", "-r", "10 day", "-d", "x day"}},
		{"missing duration", []string{"project", "-p", "100", "-r", "10 day"}},
		{"amount not a number", []string{"convert", "abc", "d", "h"}},
		{"population not a number", []string{"project", "-p", "abc", "-r", "10 day", "-d", "1 day"}},
		{"unknown flag", []string{"units", "--colour"}},
		{"run with nothing", []string{"run"}},
		{"too many doublings", []string{"sweep", "-p", "100", "-r", "100 day", "-d", "1 day", "--doublings", "2000000000"}},
		{"zero doublings", []string{"sweep", "-p", "100", "-r", "100 day", "-d", "1 day", "--doublings", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a flag or argument typed wrong
			// WHEN the command runs
			_, err := execute(t, afero.NewMemMapFs(), "", tt.args...)

			// THEN it is rejected input, exit status 2
			require.Error(t, err)
			assert.Equal(t, 2, ExitCode(err), err.Error())
		})
	}
}

func TestSweep_DoublingsCap(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "",
		"sweep", "-p", "100", "-r", "100 day", "-d", "1 day", "--doublings", "31")

	require.Error(t, err)
	assert.Contains(t, out, "out of range [1, 30]")
}

func TestCompare_Overflow(t *testing.T) {
	// GIVEN 100% per second compounded every second for a year
	args := []string{"compare", "-p", "100", "-r", "100 second", "-d", "1 year"}

	// WHEN shown for humans
	out, err := execute(t, afero.NewMemMapFs(), "", args...)

	// THEN it is rejected input rather than a crash
	require.Error(t, err)
	assert.ErrorIs(t, err, growth.ErrInvalidQuantity)
	assert.Equal(t, 2, ExitCode(err))
	assert.Contains(t, out, "projected population")

	// AND the JSON form names the error kind
	out, err = execute(t, afero.NewMemMapFs(), "", append([]string{"--format", "json"}, args...)...)
	require.Error(t, err)
	assert.Equal(t, 2, ExitCode(err))

	var got report.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "invalid_quantity", got.Error)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("boom")))
	assert.Equal(t, 2, ExitCode(growth.ErrInvalidQuantity))
	assert.Equal(t, 2, ExitCode(usagef("--rate is required")))
	assert.Equal(t, 130, ExitCode(ErrInterrupted))
}

// =============================================================================
// INTERACTIVE
// =============================================================================

func TestInteractive_Default(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "q\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Population Growth Calculator")
	assert.Contains(t, out, "Selected Quit Program")
}

func TestInteractive_Command(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "2\n100\n10 day\n1\n200\n\nn\n", "interactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Time to reach 200.00: 8 days")
}

func TestExecute_Interrupted(t *testing.T) {
	t.Setenv("GROWTH_STYLE", "plain")

	// GIVEN the interactive menu waiting on stdin that never arrives
	stdin, stdinW := io.Pipe()
	t.Cleanup(func() { stdinW.Close() })

	a := &app{fs: afero.NewMemMapFs()}
	root := a.rootCmd()
	root.SetArgs([]string{"interactive"})
	root.SetIn(stdin)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	// WHEN the context is cancelled
	err := a.execute(ctx, root)

	// THEN execute returns without waiting for the read
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.Equal(t, 130, ExitCode(err))
}
