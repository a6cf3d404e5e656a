/*
prompt.go - Line-oriented input primitives for the interactive calculator

PURPOSE:
  Asks one question, reads answers line by line until one is valid, and
  returns it typed. Invalid answers print a red "Invalid. ..." line and the
  question is asked again. Typing q or quit at any prompt returns ErrQuit so
  the caller can unwind cleanly instead of exiting the process.

PRIMITIVES:
  Choice      pick one of a few short values, by value or 1-based position
  Menu        pick one keyed option, by key, label or 1-based position
  Ranged      integer in [start, end], end may be Unbounded
  Number      float in [min, max], max may be +Inf
  TimeAmount  "<number> <unit>" in [min, max]; a bare unit means 1 of it,
              "help" lists the units
  Unit        a unit name or abbreviation, empty for the default

USAGE:
  p := prompt.New(os.Stdin, os.Stdout, styles)
  rate, err := p.TimeAmount("Enter the growth rate (%) and its time unit", 0, math.Inf(1))
  if errors.Is(err, prompt.ErrQuit) {
      return nil
  }

SEE ALSO:
  - session/session.go: the menu loop built on these
  - units/quantity.go: ParseQuantity, the accepted time syntax
*/
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/warp/growth-engine/report"
	"github.com/warp/growth-engine/units"
)

// ErrQuit is returned when the user types q or quit.
var ErrQuit = errors.New("quit selected")

// Unbounded as the end of Ranged accepts any integer >= start.
const Unbounded = math.MaxInt

const errRetry = "Invalid. Please try again."

// Option is one entry of a Menu.
type Option struct {
	Key   string
	Label string
}

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	styles report.Styles
}

func New(in io.Reader, out io.Writer, styles report.Styles) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, styles: styles}
}

// =============================================================================
// PRIMITIVES
// =============================================================================

// Choice lists choices on one line and returns the one picked.
func (p *Prompter) Choice(prompt string, choices []string) (string, error) {
	p.question(prompt)
	p.printf("%s %s\n", p.styles.Heading.UnsetPadding().Render("Options:"), strings.Join(choices, ", "))
	for {
		answer, err := p.readLine(": ")
		if err != nil {
			return "", err
		}
		for _, c := range choices {
			if strings.EqualFold(answer, c) {
				return c, nil
			}
		}
		if i, ok := position(answer, len(choices)); ok {
			return choices[i], nil
		}
		p.invalid(errRetry)
	}
}

// Menu lists options one per line as "key | label" and returns the one
// picked.
func (p *Prompter) Menu(prompt string, options []Option) (Option, error) {
	p.question(prompt)
	for _, o := range options {
		p.printf("%s | %s\n", o.Key, o.Label)
	}
	for {
		answer, err := p.readLine(": ")
		if err != nil {
			return Option{}, err
		}
		picked, ok := matchOption(answer, options)
		if !ok {
			p.invalid(errRetry)
			continue
		}
		p.selected(picked.Label)
		return picked, nil
	}
}

// Ranged reads an integer in [start, end].
func (p *Prompter) Ranged(prompt string, start, end int) (int, error) {
	p.question(prompt)
	label := fmt.Sprintf("Pick between %d to %s: ", start, intBound(end))
	for {
		answer, err := p.readLine(label)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < start || n > end {
			p.invalid(errRetry)
			continue
		}
		p.selected(strconv.Itoa(n))
		return n, nil
	}
}

// Number reads a finite float in [min, max].
func (p *Prompter) Number(prompt string, min, max float64) (float64, error) {
	p.question(prompt)
	label := fmt.Sprintf("Enter a number (%s-%s): ", floatBound(min), floatBound(max))
	for {
		answer, err := p.readLine(label)
		if err != nil {
			return 0, err
		}
		x, err := strconv.ParseFloat(answer, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			p.invalid("Invalid. Enter a number.")
			continue
		}
		if x < min || x > max {
			p.invalid(fmt.Sprintf("Invalid. Enter a number between %s and %s.", floatBound(min), floatBound(max)))
			continue
		}
		return x, nil
	}
}

// TimeAmount reads a time quantity whose amount lies in [min, max].
func (p *Prompter) TimeAmount(prompt string, min, max float64) (units.TimeQuantity, error) {
	p.question(prompt)
	label := fmt.Sprintf("Enter a number (%s-%s) and a unit: ", floatBound(min), floatBound(max))
	for {
		answer, err := p.readLine(label)
		if err != nil {
			return units.TimeQuantity{}, err
		}
		fields := strings.Fields(answer)
		switch {
		case len(fields) == 0:
			p.invalid("Invalid. Enter in format 'number<space>unit'.")
			continue
		case len(fields) == 1 && fields[0] == "help":
			p.listUnits()
			continue
		case len(fields) > 2:
			p.invalid("Invalid. Enter in format 'number<space>unit'.")
			continue
		}

		q, err := units.ParseQuantity(answer)
		if err != nil {
			var unknown *units.UnknownUnitError
			switch {
			case errors.As(err, &unknown) && len(fields) == 2:
				p.invalid("Invalid. Incorrect unit. Enter 'help' for list of units.")
			case len(fields) == 2:
				p.invalid("Invalid. First value must be a number.")
			default:
				p.invalid("Invalid. Enter in format 'number<space>unit'.")
			}
			continue
		}
		if !q.IsFinite() {
			p.invalid("Invalid. First value must be a number.")
			continue
		}
		if q.Value < min || q.Value > max {
			p.invalid(fmt.Sprintf("Invalid. Enter a number between %s and %s.", floatBound(min), floatBound(max)))
			continue
		}
		if q.Value == 1 {
			p.selected(q.Unit.String())
		} else {
			p.selected(q.String())
		}
		return q, nil
	}
}

// Unit reads a unit name or abbreviation. An empty answer picks def.
func (p *Prompter) Unit(prompt string, def units.Unit) (units.Unit, error) {
	p.question(prompt)
	label := fmt.Sprintf("Enter a unit [%s]: ", def)
	for {
		answer, err := p.readLine(label)
		if err != nil {
			return 0, err
		}
		switch answer {
		case "":
			p.selected(def.String())
			return def, nil
		case "help":
			p.listUnits()
			continue
		}
		u, err := units.ParseUnit(answer)
		if err != nil {
			p.invalid("Invalid. Incorrect unit. Enter 'help' for list of units.")
			continue
		}
		p.selected(u.String())
		return u, nil
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// readLine prints label, reads one line and lowercases it. io.EOF is
// returned when input runs out.
func (p *Prompter) readLine(label string) (string, error) {
	p.printf("%s", label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	answer := strings.ToLower(strings.TrimSpace(p.in.Text()))
	if answer == "q" || answer == "quit" {
		p.selected("Quit Program")
		return "", ErrQuit
	}
	return answer, nil
}

func (p *Prompter) listUnits() {
	p.printf("%s\n%s.\n", p.styles.Prompt.Render("Available units:"), strings.Join(units.Names(), ", "))
}

func (p *Prompter) question(s string) {
	p.printf("%s\n", p.styles.Prompt.Render(s))
}

func (p *Prompter) selected(s string) {
	p.printf("%s\n", p.styles.Success.Render("Selected "+s))
}

func (p *Prompter) invalid(s string) {
	p.printf("%s\n", p.styles.Error.Render(s))
}

func (p *Prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func matchOption(answer string, options []Option) (Option, bool) {
	for _, o := range options {
		if strings.EqualFold(answer, o.Key) || strings.EqualFold(answer, o.Label) {
			return o, true
		}
	}
	if i, ok := position(answer, len(options)); ok {
		return options[i], true
	}
	return Option{}, false
}

// position resolves a 1-based position answer to an index.
func position(answer string, n int) (int, bool) {
	i, err := strconv.Atoi(answer)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}

func intBound(n int) string {
	if n == Unbounded {
		return "∞"
	}
	return strconv.Itoa(n)
}

func floatBound(x float64) string {
	if math.IsInf(x, 1) {
		return "∞"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}
