// Package retry provides the bounded retry loops used at specific browser
// interaction points, such as reading hover overlays or re-querying an
// element after a stale reference.
//
//	likes, err := retry.DoWithResult(func() (int, error) {
//		return readOverlay(ctx, post)
//	}, &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.DefaultStepBackoff(),
//		Context:     ctx,
//		Logger:      log,
//	})
//
// Retries are opt-in per call site. Nothing else in the scrape retries
// automatically.
package retry
