package discord

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"socialharvest/pkg/config"
	errs "socialharvest/pkg/errors"
	"socialharvest/pkg/harvest"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/models"
	"socialharvest/pkg/retry"
	"socialharvest/pkg/snapshot"
)

// Platform is the name used in logs, screenshots and credentials
const Platform = "discord"

// LoginScreenshot is written to the screenshot directory when login fails
const LoginScreenshot = "login_failure.png"

// Page is the browser tab the scraper drives
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitElement(ctx context.Context, selector string) error
	Has(ctx context.Context, selector string) (bool, error)
	Click(ctx context.Context, selector string) error
	Input(ctx context.Context, selector, text string) error
	Text(ctx context.Context, selector string) (string, error)
	HTML(ctx context.Context, selector string) (string, error)
	WaitURL(ctx context.Context, match func(string) bool) error
	ScrollToBottom(ctx context.Context, selector string) error
	Region(ctx context.Context, selector string) (harvest.Region, error)
	Locator(selector string) harvest.Locator
	Screenshot(ctx context.Context, path string) error
}

// Scraper collects server topology, members and messages from Discord
type Scraper struct {
	page          Page
	cfg           config.DiscordConfig
	members       config.HarvestConfig
	lastActive    config.HarvestConfig
	screenshotDir string
	parser        *snapshot.Parser
	log           logger.Logger

	// OnProgress receives every harvest parse pass
	OnProgress func(harvest.Progress)
	// Now stamps last_seen; defaults to time.Now
	Now func() time.Time
}

// New creates a Discord scraper on page
func New(page Page, cfg *config.Config, log logger.Logger) *Scraper {
	log = logger.OrDefault(log).WithField("platform", Platform)
	return &Scraper{
		page:          page,
		cfg:           cfg.Discord,
		members:       cfg.Harvest.Members,
		lastActive:    cfg.Harvest.LastActive,
		screenshotDir: cfg.Browser.ScreenshotDir,
		parser:        snapshot.New(log),
		log:           log,
		Now:           time.Now,
	}
}

// Login signs in and waits for the home channel list. Any failure is an
// authentication error and leaves a screenshot behind.
func (s *Scraper) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return errs.New(errs.ErrorTypeAuth, "discord login", "email and password are required", nil)
	}
	s.log.WithField("email", email).Info("Logging in")

	err := s.login(ctx, email, password)
	if err == nil {
		s.log.Info("Login verified")
		return nil
	}

	shot := filepath.Join(s.screenshotDir, LoginScreenshot)
	if serr := s.page.Screenshot(ctx, shot); serr != nil {
		s.log.WithError(serr).Warn("Could not capture login screenshot")
		shot = ""
	}
	logger.LogTargetFailure(s.log, Platform, "login", shot, err)
	return errs.New(errs.ErrorTypeAuth, "discord login", "login was not accepted", err)
}

func (s *Scraper) login(ctx context.Context, email, password string) error {
	if err := s.page.Navigate(ctx, s.cfg.LoginURL); err != nil {
		return err
	}
	if err := s.page.WaitElement(ctx, snapshot.DiscordEmailInput); err != nil {
		return err
	}
	if err := s.page.Input(ctx, snapshot.DiscordEmailInput, email); err != nil {
		return err
	}
	if err := s.page.Input(ctx, snapshot.DiscordPasswordInput, password); err != nil {
		return err
	}
	if err := s.page.Click(ctx, snapshot.DiscordSubmitButton); err != nil {
		return err
	}
	return s.page.WaitURL(ctx, func(u string) bool {
		return strings.Contains(u, snapshot.DiscordLoggedInPath)
	})
}

// ScrapeServer collects one server. Only a server page that cannot be
// loaded fails the target; every other step degrades to defaults.
func (s *Scraper) ScrapeServer(ctx context.Context, serverURL string, channelURLs []string) (models.ServerInfo, error) {
	log := s.log.WithField("server_url", serverURL)
	info := models.ServerInfo{
		ServerName: errs.Unknown,
		ServerID:   snapshot.ServerID(serverURL),
		URL:        serverURL,
		Channels:   []models.ChannelCategory{},
		Members:    models.Members{Groups: []models.Group{}, OnlineMembers: []models.Member{}},
		LastActive: map[string]models.LastActive{},
		Messages:   []models.Message{},
	}

	if err := s.page.Navigate(ctx, serverURL); err != nil {
		return info, fmt.Errorf("failed to open server: %w", err)
	}

	info.ServerName = s.serverName(ctx, serverURL)
	log = log.WithField("server", info.ServerName)
	log.Info("Scraping server")

	info.Channels = s.channels(ctx, info.ServerName)
	info.Members = s.memberGroups(ctx, info.ServerID)
	info.LastActive = s.roster(ctx, info.ServerID)
	info.Messages = s.Messages(ctx, channelURLs)

	log.InfoWithFields("Server scraped", map[string]interface{}{
		"categories":     len(info.Channels),
		"groups":         len(info.Members.Groups),
		"online_members": len(info.Members.OnlineMembers),
		"roster":         len(info.LastActive),
		"messages":       len(info.Messages),
	})
	return info, nil
}

func (s *Scraper) serverName(ctx context.Context, serverURL string) string {
	selector := fmt.Sprintf(snapshot.DiscordServerHeader, snapshot.ChannelID(serverURL))
	text, err := s.page.Text(ctx, selector)
	if err != nil {
		s.log.WithError(err).Warn("Server name not found")
		return errs.Unknown
	}
	if name := snapshot.LastLine(text); name != "" {
		return name
	}
	return errs.Unknown
}

func (s *Scraper) channels(ctx context.Context, serverName string) []models.ChannelCategory {
	if serverName == errs.Unknown {
		return []models.ChannelCategory{}
	}
	selector := fmt.Sprintf(snapshot.DiscordServerNav, strings.ReplaceAll(serverName, "'", `\'`))
	html, err := s.page.HTML(ctx, selector)
	if err != nil {
		s.log.WithError(err).Warn("Channel sidebar not found")
		return []models.ChannelCategory{}
	}
	categories := s.parser.Channels(html)
	if categories == nil {
		categories = []models.ChannelCategory{}
	}
	return categories
}

func (s *Scraper) harvestOptions(name string, selector string) harvest.Options {
	return harvest.Options{
		Name:       name,
		Logger:     s.log,
		Locator:    s.page.Locator(selector),
		OnProgress: s.OnProgress,
		Now:        s.Now,
	}
}

// memberGroups harvests the member list headers and the members shown
// under them
func (s *Scraper) memberGroups(ctx context.Context, serverID string) models.Members {
	out := models.Members{Groups: []models.Group{}, OnlineMembers: []models.Member{}}

	if shown, err := s.page.Has(ctx, snapshot.DiscordMemberListToggle); err == nil && shown {
		if err := s.page.Click(ctx, snapshot.DiscordMemberListToggle); err != nil {
			s.log.WithError(err).Warn("Could not open the member list")
		}
	}

	selector := fmt.Sprintf(snapshot.DiscordMemberList, serverID)
	region, err := s.page.Region(ctx, selector)
	if err != nil {
		s.log.WithError(err).Warn("Member list not found")
		return out
	}

	result := harvest.Harvest(ctx, region, s.parser.Members, s.members, s.harvestOptions("members", selector))
	return MembersFromEntries(result.Payloads())
}

// MembersFromEntries splits harvested member list entries into groups and
// members, keeping discovery order
func MembersFromEntries(entries []models.MemberEntry) models.Members {
	out := models.Members{Groups: []models.Group{}, OnlineMembers: []models.Member{}}
	for _, e := range entries {
		switch e.Kind {
		case models.EntryGroup:
			out.Groups = append(out.Groups, models.Group{Group: e.Group, Count: e.Count})
		case models.EntryMember:
			out.OnlineMembers = append(out.OnlineMembers, models.Member{ID: e.MemberID, Username: e.Username})
		}
	}
	return out
}

// roster harvests every member row with its presence. last_seen is when
// the member was first seen in its current status.
func (s *Scraper) roster(ctx context.Context, serverID string) map[string]models.LastActive {
	out := map[string]models.LastActive{}

	selector := fmt.Sprintf(snapshot.DiscordMemberList, serverID)
	region, err := s.page.Region(ctx, selector)
	if err != nil {
		s.log.WithError(err).Warn("Member list not found for last active")
		return out
	}

	result := harvest.Harvest(ctx, region, s.parser.Roster, s.lastActive, s.harvestOptions("last_active", selector))
	for _, rec := range result.Records {
		out[rec.ID] = models.LastActive{
			Username: rec.Payload.Username,
			Status:   rec.Payload.Status,
			LastSeen: rec.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}
	return out
}

// Messages reads the latest messages of each channel. A channel that does
// not load is skipped.
func (s *Scraper) Messages(ctx context.Context, channelURLs []string) []models.Message {
	out := []models.Message{}
	for _, channelURL := range channelURLs {
		log := s.log.WithField("channel_url", channelURL)

		if err := s.page.Navigate(ctx, channelURL); err != nil {
			log.WithError(err).Warn("Skipping channel")
			continue
		}
		if err := s.page.WaitElement(ctx, snapshot.DiscordChatList); err != nil {
			log.WithError(err).Warn("Chat list did not load, skipping channel")
			continue
		}
		if err := s.page.ScrollToBottom(ctx, snapshot.DiscordChatList); err != nil {
			log.WithError(err).Warn("Could not scroll to the newest messages")
		}
		if err := retry.Wait(context.WithoutCancel(ctx), s.members.SettleDelay); err != nil {
			log.WithError(err).Debug("Settle wait interrupted")
		}

		html, err := s.page.HTML(ctx, snapshot.DiscordChatList)
		if err != nil {
			log.WithError(err).Warn("Chat list disappeared, skipping channel")
			continue
		}
		messages := s.parser.Messages(html)
		log.WithField("messages", len(messages)).Info("Channel messages extracted")
		out = append(out, messages...)
	}
	return out
}
