package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"socialharvest/pkg/config"
	errs "socialharvest/pkg/errors"
	"socialharvest/pkg/harvest"
	"socialharvest/pkg/logger"
	"socialharvest/pkg/ratelimit"
	"socialharvest/pkg/retry"
)

const (
	// urlPollInterval is how often WaitURL re-reads the page location
	urlPollInterval = 500 * time.Millisecond
	// staleRetryDelay separates the two attempts of an interaction whose
	// element was re-rendered underneath it
	staleRetryDelay = 250 * time.Millisecond
)

// Session is one browser with a single tab. Every operation runs on that
// tab; a Session is not safe for concurrent use.
type Session struct {
	cfg      config.BrowserConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	throttle ratelimit.Limiter
	log      logger.Logger
}

// Launch starts a browser with automation fingerprints masked and opens
// the tab all navigation happens in.
func Launch(ctx context.Context, cfg config.BrowserConfig, log logger.Logger) (*Session, error) {
	log = logger.OrDefault(log).WithField("component", "browser")

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-infobars"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("start-maximized"))
	if cfg.Lang != "" {
		l.Set(flags.Flag("lang"), cfg.Lang)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	log.WithField("control_url", controlURL).Debug("Browser launched")

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = b.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	// must be installed before the first navigation
	if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
		log.WithError(err).Warn("Stealth injection failed, continuing without it")
	}
	if cfg.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent:      cfg.UserAgent,
			AcceptLanguage: cfg.Lang,
		}); err != nil {
			log.WithError(err).Warn("User agent override failed")
		}
	}

	return &Session{
		cfg:      cfg,
		launcher: l,
		browser:  b,
		page:     page,
		throttle: ratelimit.NewThrottle(cfg.NavigateInterval),
		log:      log,
	}, nil
}

// Close shuts the browser down and removes its profile directory
func (s *Session) Close() error {
	err := s.browser.Close()
	s.launcher.Cleanup()
	return err
}

// bounded returns the tab bound to ctx with the wait timeout applied
func (s *Session) bounded(ctx context.Context) *rod.Page {
	return s.page.Context(ctx).Timeout(s.cfg.WaitTimeout)
}

func (s *Session) element(ctx context.Context, op, selector string) (*rod.Element, error) {
	el, err := s.bounded(ctx).Element(selector)
	if err != nil {
		return nil, classify(op+" "+selector, err)
	}
	return el, nil
}

// Navigate loads url and waits for the load event
func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.throttle.Wait(ctx); err != nil {
		return err
	}
	s.log.WithField("url", url).Debug("Navigating")

	p := s.bounded(ctx)
	if err := p.Navigate(url); err != nil {
		return errs.New(errs.ErrorTypeNavigation, "navigate", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return errs.New(errs.ErrorTypeNavigation, "wait load", url, err)
	}
	return nil
}

// WaitElement blocks until selector matches or the wait timeout expires
func (s *Session) WaitElement(ctx context.Context, selector string) error {
	_, err := s.element(ctx, "wait", selector)
	return err
}

// Has reports whether selector matches right now, without waiting
func (s *Session) Has(ctx context.Context, selector string) (bool, error) {
	found, _, err := s.page.Context(ctx).Has(selector)
	if err != nil {
		return false, classify("has "+selector, err)
	}
	return found, nil
}

// Click clicks the element matched by selector. A click that lands on a
// re-rendered element is attempted once more with a fresh lookup.
func (s *Session) Click(ctx context.Context, selector string) error {
	return retry.Do(func() error {
		el, err := s.element(ctx, "click", selector)
		if err != nil {
			return err
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return classify("click "+selector, err)
		}
		return nil
	}, s.onStale(ctx))
}

// Input types text into the field matched by selector
func (s *Session) Input(ctx context.Context, selector, text string) error {
	el, err := s.element(ctx, "input", selector)
	if err != nil {
		return err
	}
	if err := el.Input(text); err != nil {
		return classify("input "+selector, err)
	}
	return nil
}

// Text returns the rendered text of the first element matching selector
func (s *Session) Text(ctx context.Context, selector string) (string, error) {
	el, err := s.element(ctx, "text", selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", classify("text "+selector, err)
	}
	return text, nil
}

// HTML returns the outer HTML of the first element matching selector
func (s *Session) HTML(ctx context.Context, selector string) (string, error) {
	el, err := s.element(ctx, "html", selector)
	if err != nil {
		return "", err
	}
	html, err := el.HTML()
	if err != nil {
		return "", classify("html "+selector, err)
	}
	return html, nil
}

// BodyText returns the visible text of the whole page
func (s *Session) BodyText(ctx context.Context) (string, error) {
	res, err := s.bounded(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", classify("body text", err)
	}
	return res.Value.Str(), nil
}

// URL returns the current location of the tab
func (s *Session) URL(ctx context.Context) (string, error) {
	info, err := s.page.Context(ctx).Info()
	if err != nil {
		return "", classify("url", err)
	}
	return info.URL, nil
}

// WaitURL polls the tab location until match accepts it or the wait
// timeout expires
func (s *Session) WaitURL(ctx context.Context, match func(string) bool) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WaitTimeout)
	defer cancel()

	for {
		if u, err := s.URL(ctx); err == nil && match(u) {
			return nil
		}
		if err := retry.Wait(ctx, urlPollInterval); err != nil {
			return errs.New(errs.ErrorTypeNavigation, "wait url", "location did not change in time", err)
		}
	}
}

// Hover scrolls the element into view and moves the mouse over it, with
// the same stale element handling as Click
func (s *Session) Hover(ctx context.Context, selector string) error {
	return retry.Do(func() error {
		el, err := s.element(ctx, "hover", selector)
		if err != nil {
			return err
		}
		if err := el.ScrollIntoView(); err != nil {
			return classify("scroll into view "+selector, err)
		}
		if err := el.Hover(); err != nil {
			return classify("hover "+selector, err)
		}
		return nil
	}, s.onStale(ctx))
}

// onStale retries once, and only for stale element references
func (s *Session) onStale(ctx context.Context) *retry.Config {
	policy := retry.Once(ctx, staleRetryDelay, s.log)
	policy.RetryIf = func(err error) bool {
		return errs.TypeOf(err) == errs.ErrorTypeStaleReference
	}
	return policy
}

// ScrollToBottom scrolls a scrollable element to its end
func (s *Session) ScrollToBottom(ctx context.Context, selector string) error {
	el, err := s.element(ctx, "scroll", selector)
	if err != nil {
		return err
	}
	if _, err := el.Eval(`function () { this.scrollTop = this.scrollHeight }`); err != nil {
		return classify("scroll "+selector, err)
	}
	return nil
}

// Region waits for selector and returns it as a harvestable region
func (s *Session) Region(ctx context.Context, selector string) (harvest.Region, error) {
	el, err := s.element(ctx, "region", selector)
	if err != nil {
		return nil, err
	}
	return &region{selector: selector, el: el}, nil
}

// Locator re-queries selector after the region was replaced
func (s *Session) Locator(selector string) harvest.Locator {
	return func(ctx context.Context) (harvest.Region, error) {
		return s.Region(ctx, selector)
	}
}

// Screenshot writes a PNG of the viewport to path
func (s *Session) Screenshot(ctx context.Context, path string) error {
	data, err := s.page.Context(ctx).Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot: %w", err)
	}
	return nil
}
