package harvest

import (
	"context"
	"time"
)

// Record is one item discovered in a virtualized list. ID is the merge key;
// two records with the same ID are the same logical item.
type Record[P comparable] struct {
	ID      string
	Payload P
	// UpdatedAt is set by the tracker when the record is first seen and
	// whenever its payload changes. Parsers leave it zero.
	UpdatedAt time.Time
}

// Region is a handle to a scrollable, virtualized container
type Region interface {
	// ScrollBy moves the scroll offset by clientHeight*fraction. It returns
	// an error matching errors.ErrRegionLost when the underlying node is gone.
	ScrollBy(ctx context.Context, fraction float64) error
	// Snapshot returns the current markup of the region
	Snapshot(ctx context.Context) (string, error)
}

// Locator re-queries a region after it was lost
type Locator func(ctx context.Context) (Region, error)

// ParseFunc extracts the records currently rendered in a snapshot. It must
// return an empty slice, not fail, when nothing matches.
type ParseFunc[P comparable] func(snapshot string) []Record[P]
