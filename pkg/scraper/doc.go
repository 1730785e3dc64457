// Package scraper runs a whole harvest: it logs in on each platform that
// has targets, scrapes every Discord server and Instagram profile in turn,
// and collects the results into a RunReport.
//
// Failure handling follows three levels:
//   - a field or record that cannot be read is logged and left at its
//     default by the platform packages
//   - a target whose page never loads is recorded as a TargetFailure with
//     a diagnostic screenshot, and the run moves on
//   - a rejected or missing login stops the run
//
// Consecutive targets are spaced by a random pause drawn from
// pacing.min_delay and pacing.max_delay. Cancelling the run context stops
// at the next target boundary; the report keeps everything collected so
// far and is marked Interrupted.
//
// Usage:
//
//	s := scraper.New(cfg, session, scraper.Options{Credentials: creds, Observer: progress})
//	report, err := s.Run(ctx)
//	if err != nil {
//		return err
//	}
//	paths, err := report.Save(writer, cfg)
package scraper
