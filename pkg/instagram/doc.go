// Package instagram scrapes Instagram profiles through a logged-in browser
// tab.
//
// A profile yields its header details (username, picture, bio, post,
// follower and following counts) and, for public accounts, the engagement
// of its most recent posts. Post links are collected with the harvest loop
// over the document scroller until instagram.target_post_count links are
// known or the grid stops growing. Each post thumbnail is then hovered to
// read the like and comment counters from the overlay:
//
//	s := instagram.New(session, cfg, log)
//	if err := s.Login(ctx, user, pass); err != nil {
//		return err
//	}
//	profile, err := s.ScrapeProfile(ctx, "golang")
package instagram
