/*
Package session runs the interactive calculator menu.

PURPOSE:
  Asks which of the five calculations to run, asks for its inputs, prints
  the answer and offers to go again. Model errors (an unreachable target,
  say) are shown and the menu comes back; only quitting or running out of
  input ends the session.

MODES:
  1  Compare a naive and a sophisticated model
  2  Time for a sophisticated model to reach a target population
  3  Compare two sophisticated models
  4  Detailed projections as a table
  5  Increasing fission-event frequency

USAGE:
  s := session.New(os.Stdin, os.Stdout, settings, log)
  if err := s.Run(ctx); err != nil {
      return err
  }

SEE ALSO:
  - prompt/prompt.go: input primitives
  - report/reporter.go: output
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/warp/growth-engine/config"
	"github.com/warp/growth-engine/growth"
	"github.com/warp/growth-engine/logger"
	"github.com/warp/growth-engine/prompt"
	"github.com/warp/growth-engine/report"
	"github.com/warp/growth-engine/units"
)

// Menu keys.
const (
	ModeCompareNaive = "1"
	ModeTimeToTarget = "2"
	ModeCompareTwo   = "3"
	ModeTable        = "4"
	ModeSweep        = "5"
)

// MaxDoublings bounds the frequency sweep offered interactively: 2^29 events
// per unit is already indistinguishable from continuous growth.
const MaxDoublings = 30

// MaxTableRows bounds the rows asked for interactively.
const MaxTableRows = 1000

var menu = []prompt.Option{
	{Key: ModeCompareNaive, Label: "Compare a naive and sophisticated model"},
	{Key: ModeTimeToTarget, Label: "Time for a sophisticated model to reach the target population"},
	{Key: ModeCompareTwo, Label: "Compare two sophisticated population models"},
	{Key: ModeTable, Label: "Generate detailed projections formatted as columns"},
	{Key: ModeSweep, Label: "Model increases in fission-event frequency"},
}

// Session is one interactive run.
type Session struct {
	ID       string
	prompt   *prompt.Prompter
	report   *report.Reporter
	settings config.Settings
	log      *logger.Logger
}

// New builds a session reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, s config.Settings, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	r := report.New(out, s)
	id := uuid.NewString()
	return &Session{
		ID:       id,
		prompt:   prompt.New(in, out, r.Styles()),
		report:   r,
		settings: s,
		log:      log.With("session_id", id),
	}
}

// Run loops over the menu until the user quits, input ends or ctx is done.
// Quitting and end of input are not errors.
func (s *Session) Run(ctx context.Context) error {
	s.log.Debug("session started")
	if err := s.report.Title("population growth calculator"); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.round()
		switch {
		case err == nil:
		case isEnd(err):
			s.log.Debug("session ended", "reason", err.Error())
			return nil
		case growth.IsInputError(err):
			s.log.Debug("calculation rejected", "error", err)
			if werr := s.report.Error(err); werr != nil {
				return werr
			}
		default:
			return err
		}

		again, err := s.prompt.Choice("Run another calculation?", []string{"y", "n"})
		if isEnd(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if again == "n" {
			return nil
		}
	}
}

// round runs one menu selection.
func (s *Session) round() error {
	picked, err := s.prompt.Menu("Pick a calculation:", menu)
	if err != nil {
		return err
	}
	s.log.Debug("mode selected", "mode", picked.Key)
	if err := s.report.Header(picked.Label); err != nil {
		return err
	}

	switch picked.Key {
	case ModeCompareNaive:
		return s.compareNaive()
	case ModeTimeToTarget:
		return s.timeToTarget()
	case ModeCompareTwo:
		return s.compareTwo()
	case ModeTable:
		return s.table()
	case ModeSweep:
		return s.sweep()
	}
	return fmt.Errorf("unhandled menu key %q", picked.Key)
}

// =============================================================================
// MODES
// =============================================================================

func (s *Session) compareNaive() error {
	spec, err := s.askSpec()
	if err != nil {
		return err
	}
	freq, err := s.askFrequency(spec.GrowthRate.Unit, "")
	if err != nil {
		return err
	}
	duration, err := s.askDuration()
	if err != nil {
		return err
	}
	c, err := growth.CompareModels(spec, freq, duration)
	if err != nil {
		return err
	}
	return s.report.Comparison(c)
}

func (s *Session) timeToTarget() error {
	spec, err := s.askSpec()
	if err != nil {
		return err
	}
	freq, err := s.askFrequency(spec.GrowthRate.Unit, "")
	if err != nil {
		return err
	}
	spec = spec.WithFrequency(freq)
	target, err := s.prompt.Number("Enter the target population", 0, math.Inf(1))
	if err != nil {
		return err
	}
	unit, err := s.prompt.Unit("Show the answer in which unit?", s.settings.DefaultOutputUnit())
	if err != nil {
		return err
	}
	t, err := growth.TimeToReachIn(spec, target, unit)
	if err != nil {
		return err
	}
	return s.report.TimeToReach(spec, target, t)
}

func (s *Session) compareTwo() error {
	spec, err := s.askSpec()
	if err != nil {
		return err
	}
	fa, err := s.askFrequency(spec.GrowthRate.Unit, " for the first model")
	if err != nil {
		return err
	}
	fb, err := s.askFrequency(spec.GrowthRate.Unit, " for the second model")
	if err != nil {
		return err
	}
	duration, err := s.askDuration()
	if err != nil {
		return err
	}
	c, err := growth.Compare(spec.WithFrequency(fa), spec.WithFrequency(fb), duration)
	if err != nil {
		return err
	}
	return s.report.Comparison(c)
}

func (s *Session) table() error {
	spec, err := s.askSpec()
	if err != nil {
		return err
	}
	model, err := s.prompt.Choice("Which model?", []string{string(growth.ModelNaive), string(growth.ModelSophisticated)})
	if err != nil {
		return err
	}
	if model == string(growth.ModelSophisticated) {
		freq, err := s.askFrequency(spec.GrowthRate.Unit, "")
		if err != nil {
			return err
		}
		spec = spec.WithFrequency(freq)
	}
	duration, err := s.askDuration()
	if err != nil {
		return err
	}
	rows, err := s.prompt.Ranged(fmt.Sprintf("How many rows? (%d is typical)", s.settings.TableRows), 1, MaxTableRows)
	if err != nil {
		return err
	}
	points, err := growth.Series(spec, duration, duration.Scale(1/float64(rows)))
	if err != nil {
		return err
	}
	return s.report.Series(spec, points)
}

func (s *Session) sweep() error {
	spec, err := s.askSpec()
	if err != nil {
		return err
	}
	duration, err := s.askDuration()
	if err != nil {
		return err
	}
	n, err := s.prompt.Ranged("How many doublings of the fission frequency?", 1, MaxDoublings)
	if err != nil {
		return err
	}
	sw, err := growth.FrequencySweep(spec, duration, growth.DoublingFrequencies(n))
	if err != nil {
		return err
	}
	return s.report.Sweep(spec, duration, sw)
}

// =============================================================================
// SHARED QUESTIONS
// =============================================================================

// askSpec asks for the initial population and growth rate. The returned spec
// is naive.
func (s *Session) askSpec() (growth.Spec, error) {
	p0, err := s.prompt.Number("Enter the initial population", 0, math.Inf(1))
	if err != nil {
		return growth.Spec{}, err
	}
	rate, err := s.prompt.TimeAmount("Enter the growth rate (%) and its time unit (e.g. 7 day)", 0, math.Inf(1))
	if err != nil {
		return growth.Spec{}, err
	}
	return growth.Linear(p0, growth.PercentPer(rate.Value, rate.Unit)), nil
}

func (s *Session) askFrequency(per units.Unit, suffix string) (float64, error) {
	return s.prompt.Number(fmt.Sprintf("Enter the fission events per %s%s", per, suffix), 1, math.Inf(1))
}

func (s *Session) askDuration() (units.TimeQuantity, error) {
	return s.prompt.TimeAmount("Enter the projection time and its time unit", 0, math.Inf(1))
}

func isEnd(err error) bool {
	return errors.Is(err, prompt.ErrQuit) || errors.Is(err, io.EOF)
}
