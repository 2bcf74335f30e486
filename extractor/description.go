package extractor

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// maxDescriptionLength caps the free-text context passed to the model so
// a verbose listing cannot blow up the prompt.
const maxDescriptionLength = 1500

// descriptionSelectors are candidate locations for the seller's free-text
// blurb inside the listing.
var descriptionSelectors = []string{
	".feeditem-ld .description",
	`.feeditem-ld [data-test-id="description"]`,
	".feeditem-ld .about",
	"section.description",
}

// newMarkdownConverter builds a reusable converter that strips script,
// style, and other non-content noise before rendering Markdown.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
		),
	)
}

// extractDescription pulls the listing's free-text body as Markdown.
// Strictly best-effort: any failure returns "" and the evaluation
// proceeds without the extra context.
//
// Strategy: try the known description selectors first; when none match,
// let readability locate the page's main content and use its plain text.
func (e *Extractor) extractDescription(rawHTML, sourceURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		slog.Debug("description: HTML parse failed", "error", err)
		return ""
	}

	for _, sel := range descriptionSelectors {
		selection := doc.Find(sel).First()
		if selection.Length() == 0 || strings.TrimSpace(selection.Text()) == "" {
			continue
		}
		fragment, err := goquery.OuterHtml(selection)
		if err != nil {
			continue
		}
		md, err := e.mdConverter.ConvertString(fragment, converter.WithDomain(sourceURL))
		if err != nil {
			slog.Debug("description: markdown conversion failed", "selector", sel, "error", err)
			return truncate(strings.TrimSpace(selection.Text()))
		}
		return truncate(strings.TrimSpace(md))
	}

	return e.readabilityFallback(rawHTML, sourceURL)
}

// readabilityFallback runs the Mozilla Readability algorithm over the
// whole page and returns its plain text, for listing layouts where no
// description selector matches.
func (e *Extractor) readabilityFallback(rawHTML, sourceURL string) string {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("description: readability fallback failed", "error", err)
		return ""
	}

	return truncate(strings.TrimSpace(article.TextContent))
}

func truncate(s string) string {
	if len(s) <= maxDescriptionLength {
		return s
	}
	// Cut on a rune boundary; the text is Hebrew more often than not.
	runes := []rune(s)
	if len(runes) > maxDescriptionLength {
		runes = runes[:maxDescriptionLength]
	}
	return string(runes)
}
