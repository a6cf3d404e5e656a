/*
main.go - Application entry point

PURPOSE:
  Starts the population growth calculator. With no subcommand it opens the
  interactive menu; subcommands answer one question and exit, for scripts.

SHUTDOWN:
  On SIGINT/SIGTERM the command context is cancelled, the log is flushed and
  the process exits with status 130. A blocked stdin read cannot be
  interrupted, so the interactive menu is not waited for.

EXIT STATUS:
  0    success, or the user quit the interactive menu
  1    failure (unreadable config or scenario, output error)
  2    rejected input (bad flag value, unknown unit, negative population,
       unreachable target, a projection too large to represent)
  130  interrupted

EXAMPLES:
  # Interactive
  ./growthcalc

  # Population after 10 weeks of 7% daily growth, 2 fissions a day
  ./growthcalc project --population 100 --rate "7 day" --frequency 2 --duration "10 weeks"

  # Same, as JSON
  ./growthcalc --format json project --population 100 --rate 7 --duration "10 w"

ENVIRONMENT:
  GROWTH_* variables override the config file; `growthcalc config --env`
  lists them.

SEE ALSO:
  - cmd/growthcalc/cmd/root.go: command tree
  - session/session.go: interactive menu
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/growth-engine/cmd/growthcalc/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	if errors.Is(err, cmd.ErrInterrupted) {
		fmt.Fprintln(os.Stderr, "\nInterrupted")
	}
	if err != nil {
		stop()
		os.Exit(cmd.ExitCode(err))
	}
}
