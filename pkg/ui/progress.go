package ui

import (
	"fmt"
	"strings"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker counts targets of the platform being scraped
type StatusTracker struct {
	Platform  string
	Total     int
	Done      int
	Failed    int
	StartTime time.Time
}

// NewStatusTracker starts tracking total targets of platform
func NewStatusTracker(platform string, total int, start time.Time) *StatusTracker {
	return &StatusTracker{
		Platform:  platform,
		Total:     total,
		StartTime: start,
	}
}

// Finish counts one target as finished, failed when err is set
func (st *StatusTracker) Finish(err error) {
	if err != nil {
		st.Failed++
		return
	}
	st.Done++
}

// Remaining is the number of targets not started yet
func (st *StatusTracker) Remaining() int {
	left := st.Total - st.Done - st.Failed
	if left < 0 {
		return 0
	}
	return left
}

// Bar renders the share of handled targets as a fixed width bar
func (st *StatusTracker) Bar(width int) string {
	filled := 0
	if st.Total > 0 {
		filled = (st.Done + st.Failed) * width / st.Total
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat(ProgressBar, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// Rate is the number of handled targets per minute since start
func (st *StatusTracker) Rate(now time.Time) float64 {
	elapsed := now.Sub(st.StartTime).Minutes()
	if elapsed <= 0 {
		return 0
	}
	return float64(st.Done+st.Failed) / elapsed
}

// String renders "[bar] handled/total"
func (st *StatusTracker) String() string {
	return fmt.Sprintf("[%s] %d/%d", st.Bar(20), st.Done+st.Failed, st.Total)
}
