package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"socialharvest/pkg/config"
	"socialharvest/pkg/discord"
	errs "socialharvest/pkg/errors"
	"socialharvest/pkg/instagram"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/ratelimit"
)

// Platform names as they appear in reports and screenshots
const (
	PlatformDiscord   = discord.Platform
	PlatformInstagram = instagram.Platform
)

// Options tune a Scraper. Zero values fall back to defaults.
type Options struct {
	Credentials CredentialResolver
	Observer    Observer
	// Pacer spaces consecutive targets; defaults to a jitter over
	// pacing.min_delay and pacing.max_delay
	Pacer  ratelimit.Limiter
	Logger logger.Logger
	Now    func() time.Time
}

// Scraper runs every configured target of both platforms on one page
type Scraper struct {
	cfg      *config.Config
	page     Page
	creds    CredentialResolver
	observer Observer
	pacer    ratelimit.Limiter
	logger   logger.Logger
	now      func() time.Time
}

// New creates a Scraper
func New(cfg *config.Config, page Page, opts Options) *Scraper {
	s := &Scraper{
		cfg:      cfg,
		page:     page,
		creds:    opts.Credentials,
		observer: opts.Observer,
		pacer:    opts.Pacer,
		logger:   logger.OrDefault(opts.Logger),
		now:      opts.Now,
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}
	if s.pacer == nil {
		s.pacer = ratelimit.NewJitter(cfg.Pacing.MinDelay, cfg.Pacing.MaxDelay)
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run scrapes Discord, then Instagram. Each platform runs when it has at
// least one target. Target failures are recorded in the report; an
// authentication failure stops the run and is returned. Cancelling ctx
// stops the run at the next target boundary with Interrupted set.
func (s *Scraper) Run(ctx context.Context) (*RunReport, error) {
	report := newReport()
	start := s.now()

	s.logger.InfoWithFields("Run started", map[string]interface{}{
		"servers":  len(s.cfg.Discord.ServerURLs),
		"channels": len(s.cfg.Discord.ChannelURLs),
		"profiles": len(s.cfg.Instagram.Profiles),
	})

	if len(s.cfg.Discord.ServerURLs) > 0 {
		if err := s.runDiscord(ctx, report); err != nil {
			return report, err
		}
	}
	if len(s.cfg.Instagram.Profiles) > 0 && !s.stopped(ctx, report) {
		if err := s.runInstagram(ctx, report); err != nil {
			return report, err
		}
	}

	reason := "completed"
	if report.Interrupted {
		reason = "interrupted"
	}
	s.logger.InfoWithFields("Run finished", map[string]interface{}{
		"servers":  len(report.Discord),
		"profiles": len(report.Instagram),
		"failures": len(report.Failures),
		"duration": s.now().Sub(start).String(),
		"reason":   reason,
	})
	return report, nil
}

func (s *Scraper) runDiscord(ctx context.Context, report *RunReport) error {
	cfg := s.cfg.Discord
	log := s.logger.WithField("platform", PlatformDiscord)

	email, password, err := s.credentials(PlatformDiscord, cfg.Email, cfg.Password)
	if err != nil {
		return err
	}

	ds := discord.New(s.page, s.cfg, s.logger)
	ds.OnProgress = s.observer.HarvestProgress
	ds.Now = s.now

	s.observer.PlatformStarted(PlatformDiscord, len(cfg.ServerURLs))
	if err := ds.Login(ctx, email, password); err != nil {
		return err
	}
	report.Platforms = append(report.Platforms, PlatformDiscord)

	for i, serverURL := range cfg.ServerURLs {
		if i > 0 && !s.pace(ctx, report) {
			break
		}
		if s.stopped(ctx, report) {
			break
		}

		s.observer.TargetStarted(PlatformDiscord, serverURL)
		info, err := ds.ScrapeServer(ctx, serverURL, cfg.ChannelURLs)
		if err != nil {
			if !errs.IsRecoverable(errs.TypeOf(err)) {
				return err
			}
			s.fail(ctx, report, PlatformDiscord, serverURL, err)
			continue
		}
		report.Discord = append(report.Discord, info)
		s.observer.TargetFinished(PlatformDiscord, serverURL, nil)
	}

	log.WithField("servers", len(report.Discord)).Info("Discord finished")
	return nil
}

func (s *Scraper) runInstagram(ctx context.Context, report *RunReport) error {
	cfg := s.cfg.Instagram
	log := s.logger.WithField("platform", PlatformInstagram)

	username, password, err := s.credentials(PlatformInstagram, cfg.Username, cfg.Password)
	if err != nil {
		return err
	}

	is := instagram.New(s.page, s.cfg, s.logger)
	is.OnProgress = s.observer.HarvestProgress
	is.Now = s.now

	s.observer.PlatformStarted(PlatformInstagram, len(cfg.Profiles))
	if err := is.Login(ctx, username, password); err != nil {
		return err
	}
	report.Platforms = append(report.Platforms, PlatformInstagram)

	for i, profile := range cfg.Profiles {
		if i > 0 && !s.pace(ctx, report) {
			break
		}
		if s.stopped(ctx, report) {
			break
		}

		s.observer.TargetStarted(PlatformInstagram, profile)
		p, err := is.ScrapeProfile(ctx, profile)
		if err != nil {
			if !errs.IsRecoverable(errs.TypeOf(err)) {
				return err
			}
			s.fail(ctx, report, PlatformInstagram, profile, err)
			continue
		}
		report.Instagram = append(report.Instagram, p)
		s.observer.TargetFinished(PlatformInstagram, profile, nil)
	}

	log.WithField("profiles", len(report.Instagram)).Info("Instagram finished")
	return nil
}

// credentials resolves the login of a platform. A missing login is an
// authentication failure.
func (s *Scraper) credentials(platform, username, password string) (string, string, error) {
	if s.creds == nil || (username != "" && password != "") {
		if username == "" || password == "" {
			return "", "", errs.New(errs.ErrorTypeAuth, platform+" credentials", "no login configured", nil)
		}
		return username, password, nil
	}
	user, pass, err := s.creds.Resolve(platform, username, password)
	if err != nil {
		return "", "", errs.New(errs.ErrorTypeAuth, platform+" credentials", "no login configured or stored", err)
	}
	return user, pass, nil
}

// pace waits between two targets. It reports false when the wait was cut
// short by cancellation.
func (s *Scraper) pace(ctx context.Context, report *RunReport) bool {
	if err := s.pacer.Wait(ctx); err != nil {
		report.Interrupted = true
		s.logger.WithError(err).Warn("Stopping between targets")
		return false
	}
	return true
}

func (s *Scraper) stopped(ctx context.Context, report *RunReport) bool {
	if ctx.Err() != nil {
		if !report.Interrupted {
			s.logger.Warn("Run cancelled, keeping collected results")
		}
		report.Interrupted = true
		return true
	}
	return false
}

// fail records an abandoned target with a diagnostic screenshot
func (s *Scraper) fail(ctx context.Context, report *RunReport, platform, target string, err error) {
	name := fmt.Sprintf("%s_%s_%d.png", platform, SanitizeTarget(target), s.now().Unix())
	shot := filepath.Join(s.cfg.Browser.ScreenshotDir, name)
	if serr := s.page.Screenshot(context.WithoutCancel(ctx), shot); serr != nil {
		s.logger.WithError(serr).Warn("Could not capture failure screenshot")
		shot = ""
	}

	logger.LogTargetFailure(s.logger, platform, target, shot, err)
	report.Failures = append(report.Failures, TargetFailure{
		Platform:   platform,
		Target:     target,
		Screenshot: shot,
		Err:        err,
	})
	s.observer.TargetFinished(platform, target, err)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeTarget turns a URL or username into a file name fragment
func SanitizeTarget(target string) string {
	target = strings.TrimPrefix(target, "https://")
	target = strings.TrimPrefix(target, "http://")
	name := strings.Trim(unsafeName.ReplaceAllString(target, "_"), "_.")
	if len(name) > 80 {
		name = name[:80]
	}
	if name == "" {
		return "target"
	}
	return name
}
