// Package snapshot parses HTML snapshots of Discord and Instagram pages.
//
// Parsers are pure functions of the markup they are given. They skip
// elements hidden by the page's virtualized lists, skip (and log) elements
// whose text does not have the expected shape, and return an empty result
// rather than an error when nothing matches. The harvest-facing parsers
// have the harvest.ParseFunc shape:
//
//	p := snapshot.New(log)
//	result := harvest.Harvest(ctx, region, p.Members, cfg.Harvest.Members, opts)
//
// Selectors are kept in selectors.go and compiled with cascadia when the
// package loads.
package snapshot
