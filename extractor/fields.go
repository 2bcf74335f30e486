package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/carscope/models"
)

const (
	// containerSelector marks the listing's main content block.
	containerSelector = ".feeditem-ld"

	// challengePhrase appears in Yad2's anti-automation interstitial.
	challengePhrase = "אנו מניחים שגולשים כאן בני אנוש"

	// Fallback values when the listing omits the field.
	defaultGearbox    = "אוטומטית"
	defaultEngineType = "בנזין"
)

// yearPattern matches a plausible 4-digit model year inside the title.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// selectorChain is an ordered list of compiled CSS selectors for one
// field; the first candidate yielding a usable value wins.
type selectorChain []cascadia.Sel

func mustChain(exprs ...string) selectorChain {
	chain := make(selectorChain, 0, len(exprs))
	for _, expr := range exprs {
		sel, err := cascadia.Parse(expr)
		if err != nil {
			panic("extractor: bad selector " + expr + ": " + err.Error())
		}
		chain = append(chain, sel)
	}
	return chain
}

// Candidate selectors per field, ordered most to least specific.
var (
	titleChain = mustChain(
		".feeditem-ld h1",
		".feeditem-ld .title",
		".feeditem-ld .feeditem-title",
	)
	priceChain = mustChain(
		".feeditem-ld .price",
		".feeditem-ld .feeditem-price",
		`.feeditem-ld [data-test-id="price"]`,
	)
	mileageChain = mustChain(
		".feeditem-ld .mileage",
		`.feeditem-ld [data-test-id="mileage"]`,
		".feeditem-ld .feeditem-mileage",
	)
	ownershipChain = mustChain(
		".feeditem-ld .ownership",
		`.feeditem-ld [data-test-id="ownership"]`,
	)
	gearboxChain = mustChain(
		".feeditem-ld .gearbox",
		`.feeditem-ld [data-test-id="gearbox"]`,
	)
	engineChain = mustChain(
		".feeditem-ld .engine-type",
		`.feeditem-ld [data-test-id="engine-type"]`,
	)
)

// firstText returns the trimmed text of the first candidate selector that
// matches a non-empty element.
func (c selectorChain) firstText(doc *html.Node) string {
	for _, sel := range c {
		if node := cascadia.Query(doc, sel); node != nil {
			if text := nodeText(node); text != "" {
				return text
			}
		}
	}
	return ""
}

// firstNumber returns the first candidate yielding a positive integer
// after stripping all non-digit characters.
func (c selectorChain) firstNumber(doc *html.Node) int {
	for _, sel := range c {
		if node := cascadia.Query(doc, sel); node != nil {
			if n := digitsOnly(nodeText(node)); n > 0 {
				return n
			}
		}
	}
	return 0
}

// ParseListing pulls structured vehicle attributes out of a rendered
// listing page. Gearbox and engine type fall back to fixed defaults so
// their absence never blocks evaluation; title/price/year validation is
// the caller's job.
func ParseListing(rawHTML string) (models.VehicleAttributes, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return models.VehicleAttributes{}, err
	}

	attrs := models.VehicleAttributes{
		Title:   titleChain.firstText(doc),
		Price:   priceChain.firstNumber(doc),
		Mileage: mileageChain.firstNumber(doc),
	}

	// Listings put the model year in the headline, not a dedicated element.
	if match := yearPattern.FindString(attrs.Title); match != "" {
		attrs.Year, _ = strconv.Atoi(match)
	}

	attrs.Ownership = 1
	if text := ownershipChain.firstText(doc); text != "" {
		if n := digitsOnly(text); n > 0 {
			attrs.Ownership = n
		}
	}

	attrs.Gearbox = defaultGearbox
	if text := gearboxChain.firstText(doc); text != "" {
		attrs.Gearbox = text
	}

	attrs.EngineType = defaultEngineType
	if text := engineChain.firstText(doc); text != "" {
		attrs.EngineType = text
	}

	return attrs, nil
}

// nodeText collects the visible text beneath a node, trimmed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// digitsOnly strips everything but digits and parses the remainder.
// Returns 0 when no digits are present.
func digitsOnly(s string) int {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}
