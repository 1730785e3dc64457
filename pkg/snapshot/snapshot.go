package snapshot

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"socialharvest/pkg/logger"
)

// Parser turns HTML snapshots of a page region into records. Elements whose
// text does not have the expected shape are skipped and logged; a parser
// never fails a whole snapshot.
type Parser struct {
	log logger.Logger
}

// New creates a parser logging skipped elements to log
func New(log logger.Logger) *Parser {
	return &Parser{log: logger.OrDefault(log)}
}

// Compiled once so a malformed selector fails at startup.
var (
	groupHeaderOrRow = cascadia.MustCompile(DiscordGroupHeader + ", " + DiscordMemberRow)
	groupHeader      = cascadia.MustCompile(DiscordGroupHeader)
	rosterRow        = cascadia.MustCompile(DiscordRosterRow)
	username         = cascadia.MustCompile(DiscordUsername)
	channelItem      = cascadia.MustCompile(DiscordChannelItem)
	channelLink      = cascadia.MustCompile(DiscordChannelLink)
	messageItem      = cascadia.MustCompile(DiscordMessageItem)
	messageUsername  = cascadia.MustCompile(DiscordMessageUsername)
	messageTime      = cascadia.MustCompile(DiscordMessageTime)
	messageContent   = cascadia.MustCompile(DiscordMessageContent)
	attachment       = cascadia.MustCompile(DiscordAttachment)
	postLink         = cascadia.MustCompile(InstagramPostLink)
	profileName      = cascadia.MustCompile(InstagramUsername)
	profileImage     = cascadia.MustCompile(InstagramProfileImage)
	profileBio       = cascadia.MustCompile(InstagramBio)
	profileStats     = cascadia.MustCompile(InstagramStats)
	hoverText        = cascadia.MustCompile(InstagramHoverText)
)

// load parses a snapshot. The HTML parser recovers from any malformed
// input, so an error here only comes from the reader and yields nil.
func load(snapshot string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return nil
	}
	return doc
}

// visible reports whether s and its ancestors are rendered. Virtualized
// lists keep placeholders in the DOM that are hidden with attributes or
// inline styles.
func visible(s *goquery.Selection) bool {
	hidden := false
	s.AddSelection(s.Parents()).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if _, ok := el.Attr("hidden"); ok {
			hidden = true
		} else if strings.EqualFold(el.AttrOr("aria-hidden", ""), "true") {
			hidden = true
		} else if style := compactStyle(el.AttrOr("style", "")); strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			hidden = true
		}
		return !hidden
	})
	return !hidden
}

func compactStyle(style string) string {
	return strings.ToLower(strings.Join(strings.Fields(style), ""))
}

// text returns the whitespace-normalized text of s
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// LastLine returns the last non-empty line of text, trimmed
func LastLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

var counterPattern = regexp.MustCompile(`^\d[\d,]*(\.\d+)?[kKmM]?$`)

// IsCounter reports whether text looks like an engagement counter
// ("1,204", "3.5k", "12M")
func IsCounter(text string) bool {
	return counterPattern.MatchString(strings.TrimSpace(text))
}

// ConvertToNumber converts a displayed counter to an integer. Commas are
// dropped, k and m suffixes multiply by a thousand and a million.
// Anything else converts to 0.
func ConvertToNumber(text string) int {
	t := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))
	if t == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(t, "k"):
		multiplier = 1_000
		t = strings.TrimSuffix(t, "k")
	case strings.HasSuffix(t, "m"):
		multiplier = 1_000_000
		t = strings.TrimSuffix(t, "m")
	}

	if multiplier == 1 {
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(f * multiplier))
}
