package snapshot

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	errs "socialharvest/pkg/errors"
	"socialharvest/pkg/harvest"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/models"
)

// InstagramBaseURL resolves relative post and profile links
const InstagramBaseURL = "https://www.instagram.com"

// NoBio is the bio placeholder for profiles without one
const NoBio = "No bio available"

// PostLinks collects the post permalinks of a profile grid. The canonical
// URL (absolute, no query or fragment) is both identity and payload.
func (p *Parser) PostLinks(snapshot string) []harvest.Record[string] {
	doc := load(snapshot)
	if doc == nil {
		return nil
	}

	var out []harvest.Record[string]
	doc.FindMatcher(postLink).Each(func(_ int, s *goquery.Selection) {
		if !visible(s) {
			return
		}
		link := CanonicalPostURL(s.AttrOr("href", ""))
		if link == "" {
			logger.LogParseMismatch(p.log, "post_link", s.AttrOr("href", ""))
			return
		}
		out = append(out, harvest.Record[string]{ID: link, Payload: link})
	})
	return out
}

// CanonicalPostURL resolves href against instagram.com and strips the query
// and fragment. It returns "" when href is not a post link.
func CanonicalPostURL(href string) string {
	if !strings.Contains(href, "/p/") {
		return ""
	}
	abs := resolve(InstagramBaseURL, href)
	u, err := url.Parse(abs)
	if err != nil || u.Host == "" {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// PostShortcode returns the segment after /p/ of a post URL
func PostShortcode(postURL string) string {
	segments := pathSegments(postURL)
	for i, seg := range segments {
		if seg == "p" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	return ""
}

// ProfileURL builds the profile page URL of a username. Full URLs are
// returned unchanged.
func ProfileURL(profile string) string {
	if strings.HasPrefix(profile, "http://") || strings.HasPrefix(profile, "https://") {
		return profile
	}
	return InstagramBaseURL + "/" + strings.Trim(profile, "/@ ") + "/"
}

// IsPrivate reports whether a profile page says the account is private
func IsPrivate(pageText string) bool {
	return strings.Contains(strings.ToLower(pageText), strings.ToLower(InstagramPrivateText))
}

// Profile reads the header of a profile page. Missing fields fall back to
// N/A, or to NoBio for the bio.
func (p *Parser) Profile(snapshot string) models.Profile {
	profile := models.Profile{
		Username:     errs.NotAvailable,
		ProfileImage: errs.NotAvailable,
		Bio:          NoBio,
		Posts:        errs.NotAvailable,
		Followers:    errs.NotAvailable,
		Following:    errs.NotAvailable,
	}
	doc := load(snapshot)
	if doc == nil {
		return profile
	}

	if name := text(doc.FindMatcher(profileName).First()); name != "" {
		profile.Username = name
	}
	if src := doc.FindMatcher(profileImage).First().AttrOr("src", ""); src != "" {
		profile.ProfileImage = src
	}
	if bio := strings.TrimSpace(doc.FindMatcher(profileBio).First().Text()); bio != "" {
		profile.Bio = bio
	}

	stats := doc.FindMatcher(profileStats)
	if stats.Length() >= 3 {
		fields := []*string{&profile.Posts, &profile.Followers, &profile.Following}
		for i, dst := range fields {
			if first := strings.Fields(stats.Eq(i).Text()); len(first) > 0 {
				*dst = first[0]
			}
		}
	} else if stats.Length() > 0 {
		logger.LogParseMismatch(p.log, "profile_stats", text(stats))
	}
	return profile
}

// HoverCounts reads likes and comments from the overlay shown while a post
// thumbnail is hovered. ok is false when fewer than two counters are shown.
func (p *Parser) HoverCounts(snapshot string) (likes, comments int, ok bool) {
	doc := load(snapshot)
	if doc == nil {
		return 0, 0, false
	}

	var counters []string
	doc.FindMatcher(hoverText).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.ChildrenFiltered("span").Length() > 0 {
			return true
		}
		if t := strings.TrimSpace(s.Text()); IsCounter(t) {
			counters = append(counters, t)
		}
		return len(counters) < 2
	})
	if len(counters) < 2 {
		return 0, 0, false
	}
	return ConvertToNumber(counters[0]), ConvertToNumber(counters[1]), true
}
