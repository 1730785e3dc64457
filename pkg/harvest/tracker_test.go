package harvest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"socialharvest/pkg/config"
)

type member struct {
	Username string
	Status   string
}

func TestTrackerMerge(t *testing.T) {
	tr := NewTracker[member](testConfig())
	tr.now = fixedClock()

	added, changed := tr.Merge([]Record[member]{
		{ID: "1", Payload: member{"ana", "online"}},
		{ID: "2", Payload: member{"bo", "idle"}},
	})
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, changed)
	first := tr.Records()[0].UpdatedAt

	added, changed = tr.Merge([]Record[member]{
		{ID: "1", Payload: member{"ana", "online"}},
		{ID: "2", Payload: member{"bo", "dnd"}},
		{ID: "3", Payload: member{"cy", "offline"}},
	})
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, changed)

	recs := tr.Records()
	assert.Equal(t, "dnd", recs[1].Payload.Status)
	assert.Equal(t, first, recs[0].UpdatedAt, "unchanged payload keeps its timestamp")
	assert.True(t, recs[1].UpdatedAt.After(first))
}

func TestTrackerTransitions(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.HarvestConfig
		batches [][]string
		want    []State
	}{
		{
			name:    "stall threshold",
			cfg:     config.HarvestConfig{MaxIterations: 10, StallThreshold: 2},
			batches: [][]string{{"a"}, {"a"}, {"a"}},
			want:    []State{StateScanning, StateScanning, StateConverged},
		},
		{
			name:    "new record resets stall",
			cfg:     config.HarvestConfig{MaxIterations: 10, StallThreshold: 2},
			batches: [][]string{{"a"}, {"a"}, {"b"}, {"b"}, {"b"}},
			want:    []State{StateScanning, StateScanning, StateScanning, StateScanning, StateConverged},
		},
		{
			name:    "iteration bound",
			cfg:     config.HarvestConfig{MaxIterations: 2, StallThreshold: 5},
			batches: [][]string{{"a"}, {"b"}},
			want:    []State{StateScanning, StateMaxIterationsReached},
		},
		{
			name:    "convergence before iteration bound",
			cfg:     config.HarvestConfig{MaxIterations: 2, StallThreshold: 1},
			batches: [][]string{{"a"}, {"a"}},
			want:    []State{StateScanning, StateConverged},
		},
		{
			name:    "target",
			cfg:     config.HarvestConfig{MaxIterations: 10, StallThreshold: 3, TargetCount: 3},
			batches: [][]string{{"a", "b"}, {"c"}},
			want:    []State{StateScanning, StateMaxTargetReached},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker[string](tt.cfg)
			for i, batch := range tt.batches {
				var recs []Record[string]
				for _, id := range batch {
					recs = append(recs, Record[string]{ID: id})
				}
				got := tr.Observe(recs)
				assert.Equal(t, tt.want[i], got, "pass %d", i+1)
				tr.Next()
			}
		})
	}
}

func TestTrackerTerminalStateIsSticky(t *testing.T) {
	tr := NewTracker[string](config.HarvestConfig{MaxIterations: 5, StallThreshold: 1})
	tr.Observe(nil)
	assert.Equal(t, StateConverged, tr.State())

	assert.Equal(t, StateConverged, tr.Observe([]Record[string]{{ID: "late"}}))
	tr.Next()
	assert.Equal(t, 1, tr.Iteration())
	assert.Equal(t, 0, tr.Len())
}

func TestTrackerAbort(t *testing.T) {
	tr := NewTracker[string](testConfig())
	tr.Observe([]Record[string]{{ID: "a"}})
	tr.Abort()

	assert.True(t, tr.State().Terminal())
	assert.Equal(t, "aborted", tr.State().String())
	assert.Equal(t, ReasonContainerLost, newResult(tr).Reason)
	assert.Equal(t, 1, newResult(tr).Len())
}
