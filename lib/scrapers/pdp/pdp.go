// Package pdp extracts a normalized product status from product
// detail pages. Storefronts disagree on where stock and price live
// (schema.org JSON-LD, embedded frontend state, plain markup), so the
// parser runs several independent strategies in a fixed precedence
// order and merges whatever each one managed to recover. It never
// fails: anything it cannot determine is left unknown.
package pdp

import (
	"context"
	"log/slog"
	"strings"

	"stockwatch/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/pdp")

// ProductStatus is the outcome of parsing one product page. Pointer
// and empty-string fields mean "could not be determined".
type ProductStatus struct {
	Name string
	URL  string
	// nil when no strategy could tell either way
	InStock  *bool
	Price    string
	Currency string
	// the availability token exactly as found in structured data,
	// e.g. "https://schema.org/InStock"
	AvailabilityRaw string
}

// SKUFromURL derives a SKU candidate from the final non-empty path
// segment of a product URL. No decoding or validation is applied, a
// wrong guess just means the SKU lookup finds nothing.
func SKUFromURL(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return trimmed
	}
	return trimmed[idx+1:]
}

// ParseStatus parses a complete HTML document into a ProductStatus.
// It is a pure function of its inputs and safe to call concurrently
// across documents; malformed or adversarial input degrades to
// unknown fields rather than an error.
func ParseStatus(ctx context.Context, html, fallbackName, pageURL string) ProductStatus {
	ctx, span := tracer.Start(ctx, "ParseStatus")
	defer span.End()

	status := ProductStatus{Name: fallbackName, URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		// the html5 parser recovers from essentially anything, so
		// this only fires on reader failure
		span.RecordError(err)
		return status
	}

	status.Name = extractTitle(doc, fallbackName)

	offer := extractJSONLD(ctx, doc)
	status.AvailabilityRaw = offer.Availability
	status.Price = offer.Price
	status.Currency = offer.Currency

	var inline inlineFields
	if offer.Availability == "" && offer.Price == "" {
		inline = extractInlineScripts(ctx, doc, SKUFromURL(pageURL))
		if inline.Price != "" {
			status.Price = inline.Price
		}
		if inline.Currency != "" {
			status.Currency = inline.Currency
		}
	}

	status.InStock = resolveInStock(ctx, doc, inline.InStock, offer.Availability)

	if status.Price == "" {
		status.Price = priceFromDOM(doc)
	}
	if status.Currency == "" {
		status.Currency = htmlutil.MetaContent(doc, "product:price:currency")
	}

	return status
}

// availabilityStrategy is one way of deciding the in-stock state.
// Strategies run in declaration order; a strategy only fills an
// undetermined state unless it is marked override.
type availabilityStrategy struct {
	name     string
	override bool
	resolve  func() *bool
}

// resolveInStock reduces the ordered availability strategies into one
// tri-state answer.
//
// The structured-data token runs after the buy button yet is allowed
// to override it: token-derived availability is considered more
// authoritative than button text. This mirrors long-standing behavior
// that callers depend on, see DESIGN.md for why it is kept as is.
func resolveInStock(ctx context.Context, doc *goquery.Document, inline *bool, availabilityRaw string) *bool {
	strategies := []availabilityStrategy{
		{name: "inline_script", resolve: func() *bool { return inline }},
		{name: "buy_button", resolve: func() *bool { return buttonInStock(doc) }},
		{name: "structured_data_token", override: true, resolve: func() *bool { return tokenInStock(availabilityRaw) }},
		{name: "page_text", resolve: func() *bool { return textInStock(doc) }},
	}

	var result *bool
	for _, s := range strategies {
		if result != nil && !s.override {
			continue
		}
		if v := s.resolve(); v != nil {
			result = v
			slog.DebugContext(ctx, "availability determined", "strategy", s.name, "in_stock", *v)
		}
	}
	return result
}
