package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Session is one live browser session bound to a single page. It
// implements the extractor's Page capability.
type Session struct {
	scraper  *Scraper
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	router   *rod.HijackRouter

	closeOnce sync.Once
}

// Navigate loads the given URL. A plausible search-engine Referer is sent
// unless the page would be navigated from somewhere already.
func (s *Session) Navigate(ctx context.Context, target string) error {
	if u, parseErr := url.Parse(target); parseErr == nil {
		_ = proto.NetworkSetExtraHTTPHeaders{
			Headers: proto.NetworkHeaders{
				"Referer": gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname())),
			},
		}.Call(s.page)
	}

	return s.page.Context(ctx).Navigate(target)
}

// WaitStable blocks until the DOM stops mutating or the context expires.
// A non-converging page is not an error: the current DOM is used as-is.
//
// NOTE: WaitRequestIdle uses the Fetch domain which conflicts with
// HijackRequests on Chromium 145+, so DOM stability stands in for
// network quiescence.
func (s *Session) WaitStable(ctx context.Context) error {
	err := s.page.Context(ctx).WaitDOMStable(300*time.Millisecond, 0.1)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	return nil
}

// WaitSelector blocks until an element matching the CSS selector exists
// or the context expires.
func (s *Session) WaitSelector(ctx context.Context, selector string) error {
	_, err := s.page.Context(ctx).Element(selector)
	return err
}

// BodyText returns the rendered page's visible text.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// HTML returns the rendered page's full HTML.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// Screenshot captures the current viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	return s.page.Context(ctx).Screenshot(false, nil)
}

// Close tears the whole session down: hijack router, page, browser
// process. Safe to call more than once; always call it on every exit
// path to prevent zombie Chrome processes.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.router != nil {
			if err := s.router.Stop(); err != nil {
				slog.Warn("failed to stop hijack router", "error", err)
			}
		}
		if err := s.page.Close(); err != nil {
			slog.Warn("failed to close page", "error", err)
		}
		if err := s.browser.Close(); err != nil {
			slog.Warn("failed to close browser", "error", err)
		}
		s.launcher.Kill()
		s.scraper.activeSessions.Add(-1)
		slog.Debug("browser session closed", "active", s.scraper.activeSessions.Load())
	})
	return nil
}
