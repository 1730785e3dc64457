package harvest

import (
	"context"
	"time"

	"socialharvest/pkg/config"
	"socialharvest/pkg/retry"
)

// DefaultScrollFraction is used when a config leaves the fraction unset
const DefaultScrollFraction = 0.25

// ScrollDriver advances the rendered window of a virtualized region by a
// fraction of its visible height, then waits for the list to settle.
type ScrollDriver struct {
	Fraction    float64
	SettleDelay time.Duration
}

// NewScrollDriver creates a driver from harvest limits
func NewScrollDriver(cfg config.HarvestConfig) *ScrollDriver {
	fraction := cfg.ScrollFraction
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultScrollFraction
	}
	return &ScrollDriver{Fraction: fraction, SettleDelay: cfg.SettleDelay}
}

// Advance scrolls region and blocks for the settle delay. Scroll errors are
// returned unchanged so callers can tell a lost region apart.
func (d *ScrollDriver) Advance(ctx context.Context, region Region) error {
	if err := region.ScrollBy(ctx, d.Fraction); err != nil {
		return err
	}
	return retry.Wait(ctx, d.SettleDelay)
}
