// Package scraper provides headless browser sessions backed by go-rod.
// Each session owns its own browser process: listing scrapes are rare and
// fully independent, so sessions are deliberately not pooled or reused.
package scraper

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/use-agent/carscope/config"
	"github.com/use-agent/carscope/models"
)

// Scraper creates browser sessions. It is safe for concurrent use.
type Scraper struct {
	browserCfg     config.BrowserConfig
	blockedTypes   []string
	activeSessions atomic.Int32
}

// NewScraper builds a session factory. No browser is launched until a
// session is requested.
func NewScraper(browserCfg config.BrowserConfig, blockedTypes []string) *Scraper {
	return &Scraper{
		browserCfg:   browserCfg,
		blockedTypes: blockedTypes,
	}
}

// ActiveSessions reports how many browser sessions are currently open.
func (s *Scraper) ActiveSessions() int {
	return int(s.activeSessions.Load())
}

// MaxSessions reports the configured session cap. Zero means unlimited.
func (s *Scraper) MaxSessions() int {
	return s.browserCfg.MaxSessions
}

// NewPage launches a fresh browser, opens one page on it, and prepares it
// for listing scraping: realistic user agent, fixed viewport, stealth JS,
// and a hijack router blocking non-essential resource types. The caller
// must Close the session on every exit path.
func (s *Scraper) NewPage(ctx context.Context) (*Session, error) {
	if max := int32(s.browserCfg.MaxSessions); max > 0 && s.activeSessions.Load() >= max {
		return nil, models.NewEvalError(
			models.ErrCodeRateLimited,
			"too many concurrent browser sessions",
			nil,
		)
	}

	l := launcher.New().
		Headless(s.browserCfg.Headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}
	if s.browserCfg.Proxy != "" {
		l = l.Proxy(s.browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), "1920,1080")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewEvalError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewEvalError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.MustClose()
		l.Kill()
		return nil, models.NewEvalError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: s.browserCfg.UserAgent,
	}); err != nil {
		slog.Warn("failed to set user agent", "error", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		slog.Warn("failed to set viewport", "error", err)
	}

	// Stealth JS and the hijack router only take effect for navigations
	// that happen after they are installed.
	if s.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	router := setupHijack(page, s.blockedTypes)

	s.activeSessions.Add(1)
	slog.Debug("browser session opened", "active", s.activeSessions.Load())

	return &Session{
		scraper:  s,
		launcher: l,
		browser:  browser,
		page:     page,
		router:   router,
	}, nil
}
