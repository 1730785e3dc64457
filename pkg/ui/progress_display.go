package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"socialharvest/pkg/harvest"
)

// ProgressDisplay prints run progress line by line. It satisfies
// scraper.Observer.
type ProgressDisplay struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	now     func() time.Time

	status      *StatusTracker
	targetStart time.Time
}

// NewProgressDisplay creates a display writing to stdout. verbose prints
// every harvest pass instead of only the final one.
func NewProgressDisplay(verbose bool) *ProgressDisplay {
	return NewProgressDisplayTo(os.Stdout, verbose)
}

// NewProgressDisplayTo creates a display writing to out
func NewProgressDisplayTo(out io.Writer, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:     out,
		verbose: verbose,
		now:     time.Now,
	}
}

// PlatformStarted announces a platform and its number of targets
func (p *ProgressDisplay) PlatformStarted(platform string, targets int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status = NewStatusTracker(platform, targets, p.now())
	fmt.Fprintf(p.out, "\n%s %s • %d targets\n",
		Magenta("▶"),
		Cyan(strings.ToUpper(platform)),
		targets,
	)
}

// TargetStarted prints the target about to be scraped
func (p *ProgressDisplay) TargetStarted(platform, target string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.targetStart = p.now()
	fmt.Fprintf(p.out, "%s %s %s\n", Dim(p.statusLine()), Magenta("→"), target)
}

// TargetFinished prints the outcome of a target
func (p *ProgressDisplay) TargetFinished(platform, target string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.status != nil {
		p.status.Finish(err)
	}
	if err != nil {
		fmt.Fprintf(p.out, "  %s %s • %v\n", Red("✗"), target, err)
		return
	}
	fmt.Fprintf(p.out, "  %s %s • %s\n", Green("✓"), target, p.elapsed())
}

// HarvestProgress prints a harvest pass. Without verbose only the pass
// that ends the harvest is shown.
func (p *ProgressDisplay) HarvestProgress(progress harvest.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.verbose && !progress.State.Terminal() {
		return
	}
	fmt.Fprintf(p.out, "    %s %s\n", Dim("•"), FormatProgress(progress))
}

// FormatProgress renders one harvest pass
func FormatProgress(progress harvest.Progress) string {
	line := fmt.Sprintf("%s pass %d • %d records (+%d ~%d) • stall %d",
		progress.Name,
		progress.Iteration,
		progress.Records,
		progress.Added,
		progress.Changed,
		progress.Stall,
	)
	if progress.State.Terminal() {
		line += " • " + progress.State.String()
	}
	return line
}

func (p *ProgressDisplay) statusLine() string {
	if p.status == nil {
		return ""
	}
	return p.status.String()
}

func (p *ProgressDisplay) elapsed() string {
	if p.targetStart.IsZero() {
		return formatDuration(0)
	}
	return formatDuration(p.now().Sub(p.targetStart))
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
