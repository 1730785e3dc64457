package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"socialharvest/pkg/harvest"
)

func newTestDisplay(verbose bool) (*ProgressDisplay, *bytes.Buffer) {
	var out bytes.Buffer
	d := NewProgressDisplayTo(&out, verbose)
	clock := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time {
		clock = clock.Add(5 * time.Second)
		return clock
	}
	return d, &out
}

func TestProgressDisplayTargets(t *testing.T) {
	d, out := newTestDisplay(false)

	d.PlatformStarted("discord", 2)
	d.TargetStarted("discord", "https://discord.com/channels/1/2")
	d.TargetFinished("discord", "https://discord.com/channels/1/2", nil)
	d.TargetStarted("discord", "https://discord.com/channels/3/4")
	d.TargetFinished("discord", "https://discord.com/channels/3/4", errors.New("failed to open server"))

	text := out.String()
	assert.Contains(t, text, "DISCORD")
	assert.Contains(t, text, "2 targets")
	assert.Contains(t, text, "] 1/2")
	assert.Contains(t, text, "✓")
	assert.Contains(t, text, "failed to open server")

	require.NotNil(t, d.status)
	assert.Equal(t, 1, d.status.Done)
	assert.Equal(t, 1, d.status.Failed)
	assert.Zero(t, d.status.Remaining())
}

func TestProgressDisplayHarvestPasses(t *testing.T) {
	scanning := harvest.Progress{Name: "members", Iteration: 1, Records: 12, Added: 12, State: harvest.StateScanning}
	done := harvest.Progress{Name: "members", Iteration: 4, Records: 30, Stall: 2, State: harvest.StateConverged}

	quiet, out := newTestDisplay(false)
	quiet.HarvestProgress(scanning)
	quiet.HarvestProgress(done)
	assert.Equal(t, 1, strings.Count(out.String(), "\n"), "only the final pass is shown")
	assert.Contains(t, out.String(), "converged")

	verbose, out := newTestDisplay(true)
	verbose.HarvestProgress(scanning)
	verbose.HarvestProgress(done)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestFormatProgress(t *testing.T) {
	p := harvest.Progress{Name: "posts", Iteration: 3, Records: 40, Added: 5, Changed: 1, Stall: 0, State: harvest.StateScanning}
	assert.Equal(t, "posts pass 3 • 40 records (+5 ~1) • stall 0", FormatProgress(p))

	p.State = harvest.StateMaxTargetReached
	assert.Equal(t, "posts pass 3 • 40 records (+5 ~1) • stall 0 • max_target_reached", FormatProgress(p))
}

func TestStatusTracker(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	st := NewStatusTracker("instagram", 4, start)

	st.Finish(nil)
	st.Finish(errors.New("boom"))

	assert.Equal(t, 2, st.Remaining())
	assert.Equal(t, "█████░░░░░", st.Bar(10))
	assert.InDelta(t, 1.0, st.Rate(start.Add(2*time.Minute)), 0.001)
	assert.Zero(t, st.Rate(start))

	empty := NewStatusTracker("instagram", 0, start)
	assert.Equal(t, "░░░░", empty.Bar(4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "3m5s", formatDuration(185*time.Second))
	assert.Equal(t, "2h10m", formatDuration(130*time.Minute))
}
