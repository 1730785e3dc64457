package snapshot

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	errs "socialharvest/pkg/errors"
	"socialharvest/pkg/harvest"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/models"
)

// DiscordBaseURL resolves relative channel links
const DiscordBaseURL = "https://discord.com"

// UncategorizedChannels holds channels listed before the first category
const UncategorizedChannels = "Uncategorized"

// offlineGroup is the header Discord puts above offline members
const offlineGroup = "offline"

// <name> <sep> <count> member(s)<trailing>
var groupHeaderPattern = regexp.MustCompile(`^(.*?)\s*[,—–\-]\s*(\d+)\s+members?(.*)$`)

// ParseGroupHeader extracts the name and member count of a member list
// header such as "Online — 12 members"
func ParseGroupHeader(header string) (models.Group, error) {
	normalized := strings.Join(strings.Fields(header), " ")
	m := groupHeaderPattern.FindStringSubmatch(normalized)
	if m == nil {
		return models.Group{}, errs.New(errs.ErrorTypeParseMismatch, "parse group header",
			fmt.Sprintf("%q does not match <name> - <count> members", normalized), nil)
	}
	count, err := strconv.Atoi(m[2])
	if err != nil {
		return models.Group{}, errs.New(errs.ErrorTypeParseMismatch, "parse group header", "member count out of range", err)
	}
	return models.Group{Group: strings.TrimSpace(m[1]), Count: count}, nil
}

// GroupID and MemberID key member list entries in one identity space
func GroupID(name string) string { return "group:" + name }
func MemberID(id string) string  { return "member:" + id }

// Members parses a member list snapshot into group headers and member rows.
// Rows belong to the closest preceding header; rows under the offline group,
// rows flagged offline and rows under a header that does not parse are
// left out.
func (p *Parser) Members(snapshot string) []harvest.Record[models.MemberEntry] {
	doc := load(snapshot)
	if doc == nil {
		return nil
	}

	var (
		out     []harvest.Record[models.MemberEntry]
		current string
		index   int
		skip    bool
	)
	doc.FindMatcher(groupHeaderOrRow).Each(func(_ int, s *goquery.Selection) {
		if s.IsMatcher(groupHeader) {
			current = ""
			index = 0
			skip = false
			if !visible(s) {
				return
			}
			g, err := ParseGroupHeader(s.Text())
			if err != nil {
				logger.LogParseMismatch(p.log, "group_header", text(s))
				skip = true
				return
			}
			current = g.Group
			out = append(out, harvest.Record[models.MemberEntry]{
				ID: GroupID(g.Group),
				Payload: models.MemberEntry{
					Kind:  models.EntryGroup,
					Group: g.Group,
					Count: g.Count,
				},
			})
			return
		}

		i := index
		index++
		if skip || !visible(s) || strings.EqualFold(current, offlineGroup) || hasClass(s, "offline") {
			return
		}
		name := text(s.FindMatcher(username).First())
		if name == "" {
			return
		}
		id := s.AttrOr("data-list-item-id", "")
		if id == "" {
			id = fmt.Sprintf("temp_%s_%d", current, i)
		}
		out = append(out, harvest.Record[models.MemberEntry]{
			ID: MemberID(id),
			Payload: models.MemberEntry{
				Kind:     models.EntryMember,
				MemberID: id,
				Username: name,
			},
		})
	})
	return out
}

// Roster parses every member row of a member list with its presence status
func (p *Parser) Roster(snapshot string) []harvest.Record[models.MemberStatus] {
	doc := load(snapshot)
	if doc == nil {
		return nil
	}

	var out []harvest.Record[models.MemberStatus]
	doc.FindMatcher(rosterRow).Each(func(_ int, s *goquery.Selection) {
		if !visible(s) {
			return
		}
		name := text(s.FindMatcher(username).First())
		if name == "" {
			logger.LogParseMismatch(p.log, "roster_row", text(s))
			return
		}
		id := strings.TrimSpace(s.AttrOr("data-list-item-id", ""))
		if id == "" {
			logger.LogParseMismatch(p.log, "roster_row_id", name)
			return
		}
		out = append(out, harvest.Record[models.MemberStatus]{
			ID:      id,
			Payload: models.MemberStatus{Username: name, Status: rowStatus(s)},
		})
	})
	return out
}

// rowStatus reads the presence from a row's class list
func rowStatus(s *goquery.Selection) string {
	class := strings.ToLower(s.AttrOr("class", ""))
	for _, status := range []string{"online", "idle", "dnd"} {
		if strings.Contains(class, status) {
			return status
		}
	}
	return "offline"
}

func hasClass(s *goquery.Selection, fragment string) bool {
	return strings.Contains(strings.ToLower(s.AttrOr("class", "")), fragment)
}

// Channels parses the channel sidebar of a server. A draggable item starts
// a category; categories without channels are dropped.
func (p *Parser) Channels(snapshot string) []models.ChannelCategory {
	doc := load(snapshot)
	if doc == nil {
		return nil
	}

	var (
		out      []models.ChannelCategory
		category = UncategorizedChannels
		channels []models.Channel
	)
	flush := func() {
		if len(channels) > 0 {
			out = append(out, models.ChannelCategory{Category: category, Channels: channels})
		}
		channels = nil
	}

	doc.FindMatcher(channelItem).Each(func(_ int, s *goquery.Selection) {
		name := s.AttrOr("data-dnd-name", "")
		if s.AttrOr("draggable", "") == "true" {
			flush()
			category = name
			return
		}

		link := s.FindMatcher(channelLink).First()
		id := link.AttrOr("data-list-item-id", "")
		if id == "" {
			id = name
		}
		kind := "text"
		if strings.Contains(strings.ToLower(category), "voice") {
			kind = "voice"
		}
		channels = append(channels, models.Channel{
			ID:   id,
			Name: name,
			URL:  resolve(DiscordBaseURL, link.AttrOr("href", "")),
			Type: kind,
		})
	})
	flush()
	return out
}

// Messages parses a chat list snapshot. Follow-up messages rendered without
// a header inherit the author of the previous message.
func (p *Parser) Messages(snapshot string) []models.Message {
	doc := load(snapshot)
	if doc == nil {
		return nil
	}

	var (
		out  []models.Message
		last = errs.Unknown
	)
	doc.FindMatcher(messageItem).Each(func(_ int, s *goquery.Selection) {
		author := text(s.FindMatcher(messageUsername).First())
		if author == "" {
			author = last
		}
		last = author

		timestamp := errs.Unknown
		if t := s.FindMatcher(messageTime).First(); t.Length() > 0 {
			if v := t.AttrOr("datetime", ""); v != "" {
				timestamp = v
			} else if v := t.AttrOr("aria-label", ""); v != "" {
				timestamp = v
			}
		}

		attachments := []string{}
		s.FindMatcher(attachment).Each(func(_ int, a *goquery.Selection) {
			if src, ok := a.Attr("src"); ok && src != "" {
				attachments = append(attachments, src)
			} else if href, ok := a.Attr("href"); ok && href != "" {
				attachments = append(attachments, href)
			}
		})

		out = append(out, models.Message{
			Username:    author,
			Timestamp:   timestamp,
			Content:     strings.TrimSpace(s.FindMatcher(messageContent).First().Text()),
			Attachments: attachments,
		})
	})
	return out
}

// ServerID returns the guild id of a server URL such as
// https://discord.com/channels/<guild>/<channel>
func ServerID(serverURL string) string {
	segments := pathSegments(serverURL)
	for i, seg := range segments {
		if seg == "channels" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// ChannelID returns the last path segment of a server or channel URL
func ChannelID(serverURL string) string {
	segments := pathSegments(serverURL)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func pathSegments(raw string) []string {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// resolve makes href absolute against base. Unparseable input is returned
// as is.
func resolve(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
