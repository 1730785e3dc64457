package instagram

import (
	"context"
	"fmt"
	"math"
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
const Platform = "instagram"

// LoginScreenshot is written to the screenshot directory when login fails
const LoginScreenshot = "instagram_login_failure.png"

// Page is the browser tab the scraper drives
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitElement(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	Input(ctx context.Context, selector, text string) error
	HTML(ctx context.Context, selector string) (string, error)
	BodyText(ctx context.Context) (string, error)
	WaitURL(ctx context.Context, match func(string) bool) error
	Hover(ctx context.Context, selector string) error
	Region(ctx context.Context, selector string) (harvest.Region, error)
	Locator(selector string) harvest.Locator
	Screenshot(ctx context.Context, path string) error
}

// Scraper collects profile details and recent post engagement
type Scraper struct {
	page          Page
	cfg           config.InstagramConfig
	posts         config.HarvestConfig
	screenshotDir string
	parser        *snapshot.Parser
	log           logger.Logger

	// OnProgress receives every post harvest parse pass
	OnProgress func(harvest.Progress)
	Now        func() time.Time
}

// New creates an Instagram scraper on page
func New(page Page, cfg *config.Config, log logger.Logger) *Scraper {
	log = logger.OrDefault(log).WithField("platform", Platform)
	posts := cfg.Harvest.Posts
	posts.TargetCount = cfg.Instagram.TargetPostCount

	return &Scraper{
		page:          page,
		cfg:           cfg.Instagram,
		posts:         posts,
		screenshotDir: cfg.Browser.ScreenshotDir,
		parser:        snapshot.New(log),
		log:           log,
		Now:           time.Now,
	}
}

// Login signs in and waits for the browser to leave the login page
func (s *Scraper) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errs.New(errs.ErrorTypeAuth, "instagram login", "username and password are required", nil)
	}
	s.log.WithField("username", username).Info("Logging in")

	err := s.login(ctx, username, password)
	if err == nil {
		s.log.Info("Login verified")
		return nil
	}

	message := "login was not accepted"
	if body, berr := s.page.BodyText(ctx); berr == nil && strings.Contains(body, snapshot.InstagramBadPassword) {
		message = "password was rejected"
	}

	shot := filepath.Join(s.screenshotDir, LoginScreenshot)
	if serr := s.page.Screenshot(ctx, shot); serr != nil {
		s.log.WithError(serr).Warn("Could not capture login screenshot")
		shot = ""
	}
	logger.LogTargetFailure(s.log, Platform, "login", shot, err)
	return errs.New(errs.ErrorTypeAuth, "instagram login", message, err)
}

func (s *Scraper) login(ctx context.Context, username, password string) error {
	if err := s.page.Navigate(ctx, s.cfg.LoginURL); err != nil {
		return err
	}
	if err := s.page.WaitElement(ctx, snapshot.InstagramUsernameInput); err != nil {
		return err
	}
	if err := s.page.Input(ctx, snapshot.InstagramUsernameInput, username); err != nil {
		return err
	}
	if err := s.page.Input(ctx, snapshot.InstagramPasswordInput, password); err != nil {
		return err
	}
	if err := s.page.Click(ctx, snapshot.InstagramSubmitButton); err != nil {
		return err
	}
	if body, err := s.page.BodyText(ctx); err == nil && strings.Contains(body, snapshot.InstagramBadPassword) {
		return errs.New(errs.ErrorTypeAuth, "login", snapshot.InstagramBadPassword, nil)
	}
	return s.page.WaitURL(ctx, func(u string) bool {
		return !strings.Contains(u, snapshot.InstagramLoginPath)
	})
}

// ScrapeProfile collects one profile. A profile page that never shows its
// header fails the target; private profiles are returned without posts.
func (s *Scraper) ScrapeProfile(ctx context.Context, profile string) (models.Profile, error) {
	profileURL := snapshot.ProfileURL(profile)
	log := s.log.WithField("profile", profile)

	out := models.Profile{
		Username:     errs.NotAvailable,
		ProfileURL:   profileURL,
		ProfileImage: errs.NotAvailable,
		Bio:          snapshot.NoBio,
		Posts:        errs.NotAvailable,
		Followers:    errs.NotAvailable,
		Following:    errs.NotAvailable,
		RecentPosts:  []models.Post{},
	}

	if err := s.page.Navigate(ctx, profileURL); err != nil {
		return out, fmt.Errorf("failed to open profile: %w", err)
	}
	if err := s.page.WaitElement(ctx, snapshot.InstagramHeader); err != nil {
		return out, fmt.Errorf("profile header did not load: %w", err)
	}

	if header, err := s.page.HTML(ctx, snapshot.InstagramHeader); err != nil {
		log.WithError(err).Warn("Profile header unreadable, using defaults")
	} else {
		parsed := s.parser.Profile(header)
		parsed.ProfileURL = profileURL
		parsed.RecentPosts = out.RecentPosts
		out = parsed
	}

	if body, err := s.page.BodyText(ctx); err == nil && snapshot.IsPrivate(body) {
		out.Private = true
		log.Info("Profile is private, skipping posts")
		return out, nil
	}

	links := s.PostLinks(ctx)
	for _, link := range links {
		out.RecentPosts = append(out.RecentPosts, s.Engagement(ctx, link))
	}
	out.AverageEngagement = AverageEngagement(out.RecentPosts)

	log.InfoWithFields("Profile scraped", map[string]interface{}{
		"posts_found":        len(out.RecentPosts),
		"average_engagement": out.AverageEngagement,
	})
	return out, nil
}

// PostLinks harvests the post permalinks of the open profile, keeping at
// most target_post_count of them in grid order
func (s *Scraper) PostLinks(ctx context.Context) []string {
	region, err := s.page.Region(ctx, snapshot.InstagramScroller)
	if err != nil {
		s.log.WithError(err).Warn("Post grid not found")
		return nil
	}

	result := harvest.Harvest(ctx, region, s.parser.PostLinks, s.posts, harvest.Options{
		Name:       "posts",
		Logger:     s.log,
		Locator:    s.page.Locator(snapshot.InstagramScroller),
		OnProgress: s.OnProgress,
		Now:        s.Now,
	})

	links := result.Payloads()
	if s.posts.TargetCount > 0 && len(links) > s.posts.TargetCount {
		links = links[:s.posts.TargetCount]
	}
	return links
}

// Engagement hovers a post thumbnail and reads its like and comment
// counters. After hover_attempts failed attempts the post is kept with
// zero counts.
func (s *Scraper) Engagement(ctx context.Context, postURL string) models.Post {
	post := models.Post{URL: postURL}
	selector := fmt.Sprintf(snapshot.InstagramPostAnchor, snapshot.PostShortcode(postURL))
	log := s.log.WithField("post", postURL)

	policy := &retry.Config{
		MaxAttempts: s.cfg.HoverAttempts,
		Backoff:     &retry.ConstantBackoff{Delay: s.posts.SettleDelay},
		RetryIf:     retry.DefaultRetryIf,
		Context:     ctx,
		Logger:      log,
	}

	counts, err := retry.DoWithResult(func() ([2]int, error) {
		if err := s.page.Hover(ctx, selector); err != nil {
			return [2]int{}, err
		}
		if err := retry.Wait(ctx, s.posts.SettleDelay); err != nil {
			return [2]int{}, err
		}
		overlay, err := s.page.HTML(ctx, selector)
		if err != nil {
			return [2]int{}, err
		}
		likes, comments, ok := s.parser.HoverCounts(overlay)
		if !ok {
			return [2]int{}, errs.New(errs.ErrorTypeElementNotFound, "hover counts", "overlay shows no counters", nil)
		}
		return [2]int{likes, comments}, nil
	}, policy)
	if err != nil {
		log.WithError(err).Warn("Engagement unavailable, recording zero")
		return post
	}

	post.Likes, post.Comments = counts[0], counts[1]
	log.DebugWithFields("Engagement read", map[string]interface{}{
		"likes":    post.Likes,
		"comments": post.Comments,
	})
	return post
}

// AverageEngagement is the mean of likes plus comments per post, rounded to
// two decimals. It is 0 without posts.
func AverageEngagement(posts []models.Post) float64 {
	if len(posts) == 0 {
		return 0
	}
	total := 0
	for _, p := range posts {
		total += p.Likes + p.Comments
	}
	return math.Round(float64(total)/float64(len(posts))*100) / 100
}
