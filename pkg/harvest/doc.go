// Package harvest reconstructs the full contents of a virtualized list from
// a sequence of partial, overlapping snapshots.
//
// A harvest alternates three steps: take a snapshot of the region, parse it
// into records and merge them into the tracker, then scroll the region by a
// fraction of its height and wait for the list to settle. Records are keyed
// by ID, so items recycled by the renderer are counted once and keep the
// payload seen last.
//
// The loop stops when the tracker reaches a terminal state:
//
//   - max_target_reached: TargetCount distinct records were seen
//   - converged: StallThreshold consecutive passes added or changed nothing
//   - max_iterations: MaxIterations parse passes ran
//   - container_lost: the region could not be read even after re-acquiring it
//
// Usage:
//
//	parser := snapshot.New(log)
//	result := harvest.Harvest(ctx, region, parser.PostLinks, cfg.Harvest.Posts, harvest.Options{
//	    Name:    "posts",
//	    Locator: locate,
//	})
//	for _, link := range result.Payloads() {
//	    ...
//	}
package harvest
