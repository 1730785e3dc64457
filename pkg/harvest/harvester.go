package harvest

import (
	"context"
	"time"

	"socialharvest/pkg/config"
	"socialharvest/pkg/logger"
)

// Options carries the collaborators of one harvest. Everything is optional.
type Options struct {
	// Name labels log lines and progress events (e.g. "members", "posts")
	Name string
	// Logger defaults to the global logger
	Logger logger.Logger
	// Locator re-acquires the region after a failed scroll or snapshot.
	// Without it the first failure ends the harvest.
	Locator Locator
	// OnProgress is called after every parse pass
	OnProgress func(Progress)
	// Now stamps records; defaults to time.Now
	Now func() time.Time
}

// Progress describes one completed parse pass
type Progress struct {
	Name      string
	Iteration int
	Records   int
	Added     int
	Changed   int
	Stall     int
	State     State
}

// Harvest collects every record of a virtualized list by alternating
// snapshot parsing and partial scrolls until the tracker reaches a terminal
// state.
//
// A harvest is not interruptible: it runs detached from ctx cancellation
// and stops only on convergence, target, iteration bound or region loss.
// Losing the region is not an error; the result carries what was collected
// with ReasonContainerLost.
func Harvest[P comparable](ctx context.Context, region Region, parse ParseFunc[P], cfg config.HarvestConfig, opts Options) *Result[P] {
	ctx = context.WithoutCancel(ctx)
	log := logger.OrDefault(opts.Logger).WithField("harvest", opts.Name)

	tracker := NewTracker[P](cfg)
	if opts.Now != nil {
		tracker.now = opts.Now
	}
	h := &harvester{
		region:  region,
		locator: opts.Locator,
		driver:  NewScrollDriver(cfg),
		log:     log,
	}

	logger.LogHarvestStart(log, opts.Name, cfg.MaxIterations, cfg.StallThreshold, cfg.TargetCount)

	for {
		snap, err := h.snapshot(ctx)
		if err != nil {
			log.WithError(err).WarnWithFields("Region lost, keeping partial result", map[string]interface{}{
				"iteration": tracker.Iteration(),
				"records":   tracker.Len(),
			})
			tracker.Abort()
			break
		}

		state := tracker.Observe(parse(snap))
		added, changed := tracker.LastMerge()
		log.DebugWithFields("Parse pass", map[string]interface{}{
			"iteration": tracker.Iteration(),
			"records":   tracker.Len(),
			"added":     added,
			"changed":   changed,
			"stall":     tracker.Stall(),
		})
		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				Name:      opts.Name,
				Iteration: tracker.Iteration(),
				Records:   tracker.Len(),
				Added:     added,
				Changed:   changed,
				Stall:     tracker.Stall(),
				State:     state,
			})
		}
		if state.Terminal() {
			break
		}

		if err := h.advance(ctx); err != nil {
			log.WithError(err).WarnWithFields("Region lost while scrolling, keeping partial result", map[string]interface{}{
				"iteration": tracker.Iteration(),
				"records":   tracker.Len(),
			})
			tracker.Abort()
			break
		}
		tracker.Next()
	}

	result := newResult(tracker)
	logger.LogHarvestDone(log, opts.Name, string(result.Reason), result.Iterations, result.Len())
	return result
}

// harvester holds the region handle, which changes on re-acquisition
type harvester struct {
	region  Region
	locator Locator
	driver  *ScrollDriver
	log     logger.Logger
}

func (h *harvester) snapshot(ctx context.Context) (string, error) {
	var snap string
	err := h.withRegion(ctx, func(r Region) error {
		var err error
		snap, err = r.Snapshot(ctx)
		return err
	})
	return snap, err
}

func (h *harvester) advance(ctx context.Context) error {
	return h.withRegion(ctx, func(r Region) error {
		return h.driver.Advance(ctx, r)
	})
}

// withRegion runs op against the current region. On failure the region is
// re-acquired once through the locator and op is retried once.
func (h *harvester) withRegion(ctx context.Context, op func(Region) error) error {
	err := op(h.region)
	if err == nil {
		return nil
	}
	if h.locator == nil {
		return err
	}

	h.log.WithError(err).Debug("Re-acquiring region")
	region, lerr := h.locator(ctx)
	if lerr != nil {
		return lerr
	}
	h.region = region
	return op(h.region)
}
