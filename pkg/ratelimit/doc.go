// Package ratelimit paces browser activity so a run does not hammer the
// scraped sites.
//
// Two limiters are provided:
//
// Throttle:
//   - Built on golang.org/x/time/rate with a burst of one
//   - Keeps consecutive page navigations at least an interval apart
//
// Jitter:
//   - Sleeps a random duration in [min, max] on every Wait
//   - Used between scrape targets (one Discord server, one Instagram profile)
//
// Usage:
//
//	pace := ratelimit.NewJitter(3*time.Second, 7*time.Second)
//	for i, target := range targets {
//	    if i > 0 {
//	        if err := pace.Wait(ctx); err != nil {
//	            return err
//	        }
//	    }
//	    scrape(target)
//	}
package ratelimit
