package harvest

// TerminationReason explains why a harvest stopped
type TerminationReason string

const (
	ReasonConverged        TerminationReason = "converged"
	ReasonMaxIterations    TerminationReason = "max_iterations"
	ReasonMaxTargetReached TerminationReason = "max_target_reached"
	ReasonContainerLost    TerminationReason = "container_lost"
)

// Partial reports whether the harvest ended before the list was exhausted
// or a target was met
func (r TerminationReason) Partial() bool {
	return r == ReasonContainerLost || r == ReasonMaxIterations
}

// Result is the outcome of one harvest. Records are in first-discovery
// order and each ID appears once with its last observed payload.
type Result[P comparable] struct {
	Records    []Record[P]
	Reason     TerminationReason
	Iterations int
}

// Len returns the number of distinct records
func (r *Result[P]) Len() int {
	return len(r.Records)
}

// Payloads returns the record payloads in discovery order
func (r *Result[P]) Payloads() []P {
	out := make([]P, 0, len(r.Records))
	for _, rec := range r.Records {
		out = append(out, rec.Payload)
	}
	return out
}

func reasonFor(s State) TerminationReason {
	switch s {
	case StateConverged:
		return ReasonConverged
	case StateMaxTargetReached:
		return ReasonMaxTargetReached
	case StateAborted:
		return ReasonContainerLost
	default:
		return ReasonMaxIterations
	}
}

func newResult[P comparable](t *Tracker[P]) *Result[P] {
	return &Result[P]{
		Records:    t.Records(),
		Reason:     reasonFor(t.State()),
		Iterations: t.Iteration(),
	}
}
