// Package extractor turns a listing URL into structured vehicle
// attributes by driving a headless browser session and running
// selector-fallback chains over the rendered DOM.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/use-agent/carscope/config"
	"github.com/use-agent/carscope/models"
)

// Page is the capability surface the extractor needs from one live
// browser page. scraper.Session satisfies it; tests use fakes.
type Page interface {
	Navigate(ctx context.Context, url string) error
	WaitStable(ctx context.Context) error
	WaitSelector(ctx context.Context, selector string) error
	BodyText(ctx context.Context) (string, error)
	HTML(ctx context.Context) (string, error)
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}

// Browser opens fresh pages. scraper.Scraper satisfies it.
type Browser interface {
	NewPage(ctx context.Context) (Page, error)
}

// Extractor scrapes vehicle attributes from listing pages.
type Extractor struct {
	browser     Browser
	cfg         config.ExtractorConfig
	mdConverter *converter.Converter
}

// New creates an Extractor on top of a browser capability.
func New(browser Browser, cfg config.ExtractorConfig) *Extractor {
	return &Extractor{
		browser:     browser,
		cfg:         cfg,
		mdConverter: newMarkdownConverter(),
	}
}

// Extract scrapes the listing at url and returns validated attributes.
//
// Every failure surfaces as one of exactly three kinds — challenge
// detected, required fields missing, or generic scrape failure (with a
// timeout flavor) — each carrying a user-facing message in lang that
// points at manual entry as the recovery path. No retries: a transient
// failure requires the caller to resubmit.
//
// The browser session is torn down on every exit path.
func (e *Extractor) Extract(ctx context.Context, url, lang string) (*models.VehicleAttributes, error) {
	slog.Info("starting listing extraction", "url", url)

	page, err := e.browser.NewPage(ctx)
	if err != nil {
		return nil, e.categorize(err, lang)
	}
	defer page.Close()

	pageCtx, cancel := context.WithTimeout(ctx, e.cfg.PageTimeout)
	defer cancel()

	if err := page.Navigate(pageCtx, url); err != nil {
		slog.Error("navigation failed", "url", url, "error", err)
		return nil, e.categorize(err, lang)
	}

	if err := page.WaitStable(pageCtx); err != nil {
		slog.Error("page never settled", "url", url, "error", err)
		return nil, e.categorize(err, lang)
	}

	// Challenge check comes before any field extraction: a challenge page
	// must never yield a partial result.
	bodyText, err := page.BodyText(pageCtx)
	if err != nil {
		slog.Error("failed to read page text", "url", url, "error", err)
		return nil, e.categorize(err, lang)
	}
	if strings.Contains(bodyText, challengePhrase) {
		slog.Warn("anti-automation challenge detected", "url", url)
		return nil, models.NewLocalizedError(models.ErrCodeChallenge, lang, nil)
	}

	containerCtx, cancelContainer := context.WithTimeout(pageCtx, e.cfg.ContainerTimeout)
	defer cancelContainer()

	if err := page.WaitSelector(containerCtx, containerSelector); err != nil {
		slog.Error("listing container did not appear", "url", url, "error", err)
		return nil, models.NewLocalizedError(models.ErrCodeScrapeFailed, lang, err)
	}

	e.debugScreenshot(pageCtx, page, url)

	rawHTML, err := page.HTML(pageCtx)
	if err != nil {
		slog.Error("failed to read rendered HTML", "url", url, "error", err)
		return nil, e.categorize(err, lang)
	}

	attrs, err := ParseListing(rawHTML)
	if err != nil {
		return nil, models.NewLocalizedError(models.ErrCodeScrapeFailed, lang, err)
	}

	attrs.Description = e.extractDescription(rawHTML, url)

	if attrs.Title == "" || attrs.Price <= 0 || attrs.Year == 0 {
		slog.Warn("extracted listing is missing required fields",
			"url", url,
			"title", attrs.Title,
			"price", attrs.Price,
			"year", attrs.Year,
		)
		return nil, models.NewLocalizedError(models.ErrCodeFieldsMissing, lang, nil)
	}

	slog.Info("listing extracted",
		"title", attrs.Title,
		"year", attrs.Year,
		"price", attrs.Price,
		"mileage", attrs.Mileage,
	)
	return &attrs, nil
}

// categorize wraps raw scrape errors into the failure taxonomy. Errors
// already carrying a code (challenge, session cap) pass through intact.
func (e *Extractor) categorize(err error, lang string) error {
	var evalErr *models.EvalError
	if errors.As(err, &evalErr) {
		return evalErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewLocalizedError(models.ErrCodeScrapeTimeout, lang, err)
	}
	return models.NewLocalizedError(models.ErrCodeScrapeFailed, lang, err)
}

// debugScreenshot captures the listing page when a screenshot dir is
// configured. Best-effort only.
func (e *Extractor) debugScreenshot(ctx context.Context, page Page, url string) {
	if e.cfg.ScreenshotDir == "" {
		return
	}
	shot, err := page.Screenshot(ctx)
	if err != nil {
		slog.Debug("debug screenshot failed", "url", url, "error", err)
		return
	}
	path := filepath.Join(e.cfg.ScreenshotDir, fmt.Sprintf("listing-%d.png", time.Now().UnixMilli()))
	if err := os.WriteFile(path, shot, 0o644); err != nil {
		slog.Debug("failed to write debug screenshot", "path", path, "error", err)
		return
	}
	slog.Debug("debug screenshot saved", "path", path)
}
