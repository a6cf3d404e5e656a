package session

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/growth-engine/config"
)

func run(t *testing.T, lines ...string) string {
	t.Helper()
	s := config.Default()
	s.Style = config.StylePlain

	var out bytes.Buffer
	sess := New(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, s, nil)
	require.NoError(t, sess.Run(context.Background()))
	return out.String()
}

func TestRun_CompareNaive(t *testing.T) {
	out := run(t, "1", "100", "10 day", "1", "10 days", "n")

	assert.Contains(t, out, "Population Growth Calculator")
	assert.Contains(t, out, "COMPARE A NAIVE AND SOPHISTICATED MODEL")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "259.37")
}

func TestRun_TimeToTarget(t *testing.T) {
	// 100 * 1.1^8 is the first whole day past 200.
	out := run(t, "2", "100", "10 day", "1", "200", "", "n")

	assert.Contains(t, out, "Time to reach 200.00: 8 days")
}

func TestRun_TimeToTargetInHours(t *testing.T) {
	out := run(t, "2", "100", "10 day", "1", "200", "h", "n")

	assert.Contains(t, out, "Time to reach 200.00: 192 hours")
}

func TestRun_CompareTwo(t *testing.T) {
	out := run(t, "3", "100", "10 day", "1", "2", "10 days", "n")

	assert.Contains(t, out, "259.37")
	assert.Contains(t, out, "265.33")
}

func TestRun_Table(t *testing.T) {
	out := run(t, "4", "100", "10 day", "naive", "10 days", "2", "n")

	for _, want := range []string{"0 days", "5 days", "10 days", "100.00", "150.00", "200.00"} {
		assert.Contains(t, out, want)
	}
}

func TestRun_Sweep(t *testing.T) {
	out := run(t, "5", "100", "100 day", "1 day", "2", "n")

	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "225.00")
	assert.Contains(t, out, "Continuous limit: 271.83")
}

func TestRun_ModelErrorReturnsToMenu(t *testing.T) {
	// GIVEN: a target below the initial population, then a valid projection
	out := run(t,
		"2", "100", "10 day", "1", "50", "",
		"y",
		"1", "100", "10 day", "1", "10 days",
		"n",
	)

	// THEN: the error is shown and the second round still runs
	assert.Contains(t, out, "Invalid. ")
	assert.Contains(t, out, "259.37")
}

func TestRun_QuitAndEOFEndCleanly(t *testing.T) {
	out := run(t, "q")
	assert.Contains(t, out, "Selected Quit Program")

	run(t, "1", "100")

	var buf bytes.Buffer
	sess := New(strings.NewReader(""), &buf, config.Default(), nil)
	assert.NoError(t, sess.Run(context.Background()))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	sess := New(strings.NewReader("1\n"), &buf, config.Default(), nil)
	assert.ErrorIs(t, sess.Run(ctx), context.Canceled)
}

func TestNew_AssignsID(t *testing.T) {
	a := New(strings.NewReader(""), &bytes.Buffer{}, config.Default(), nil)
	b := New(strings.NewReader(""), &bytes.Buffer{}, config.Default(), nil)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}
