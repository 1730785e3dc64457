package harvest

import (
	"time"

	"socialharvest/pkg/config"
)

// State is the convergence tracker's state
type State int

const (
	StateScanning State = iota
	StateConverged
	StateMaxIterationsReached
	StateMaxTargetReached
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateScanning:
		return "scanning"
	case StateConverged:
		return "converged"
	case StateMaxIterationsReached:
		return "max_iterations_reached"
	case StateMaxTargetReached:
		return "max_target_reached"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further iterations will run
func (s State) Terminal() bool {
	return s != StateScanning
}

// Tracker accumulates records across snapshots and decides when a harvest
// stops. It is owned by a single harvest and is not safe for concurrent use.
type Tracker[P comparable] struct {
	cfg   config.HarvestConfig
	now   func() time.Time
	index map[string]int
	seen  []Record[P]

	stall     int
	iteration int
	state     State

	lastAdded   int
	lastChanged int
}

// NewTracker creates a tracker in the Scanning state at iteration 1
func NewTracker[P comparable](cfg config.HarvestConfig) *Tracker[P] {
	return &Tracker[P]{
		cfg:       cfg,
		now:       time.Now,
		index:     make(map[string]int),
		iteration: 1,
	}
}

// Merge folds a batch into the seen set. New IDs are appended in discovery
// order; a known ID takes the batch payload only when it differs.
func (t *Tracker[P]) Merge(batch []Record[P]) (added, changed int) {
	for _, rec := range batch {
		i, ok := t.index[rec.ID]
		if !ok {
			rec.UpdatedAt = t.now()
			t.index[rec.ID] = len(t.seen)
			t.seen = append(t.seen, rec)
			added++
			continue
		}
		if t.seen[i].Payload != rec.Payload {
			t.seen[i].Payload = rec.Payload
			t.seen[i].UpdatedAt = t.now()
			changed++
		}
	}
	return added, changed
}

// Observe merges one parsed snapshot and evaluates the transition rules.
// Target takes precedence over convergence, which takes precedence over
// the iteration bound.
func (t *Tracker[P]) Observe(batch []Record[P]) State {
	if t.state.Terminal() {
		return t.state
	}

	added, changed := t.Merge(batch)
	t.lastAdded, t.lastChanged = added, changed
	if added+changed > 0 {
		t.stall = 0
	} else {
		t.stall++
	}

	switch {
	case t.cfg.TargetCount > 0 && len(t.seen) >= t.cfg.TargetCount:
		t.state = StateMaxTargetReached
	case t.stall >= t.cfg.StallThreshold:
		t.state = StateConverged
	case t.iteration >= t.cfg.MaxIterations:
		t.state = StateMaxIterationsReached
	}
	return t.state
}

// Next moves to the following iteration after a successful scroll
func (t *Tracker[P]) Next() {
	if !t.state.Terminal() {
		t.iteration++
	}
}

// Abort stops the harvest, keeping everything seen so far
func (t *Tracker[P]) Abort() {
	t.state = StateAborted
}

func (t *Tracker[P]) State() State   { return t.state }
func (t *Tracker[P]) Iteration() int { return t.iteration }
func (t *Tracker[P]) Stall() int     { return t.stall }
func (t *Tracker[P]) Len() int       { return len(t.seen) }

// LastMerge returns the additions and payload changes of the latest Observe
func (t *Tracker[P]) LastMerge() (added, changed int) {
	return t.lastAdded, t.lastChanged
}

// Records returns a copy of the seen records in first-discovery order
func (t *Tracker[P]) Records() []Record[P] {
	out := make([]Record[P], len(t.seen))
	copy(out, t.seen)
	return out
}
