package pdp

import (
	"strings"

	"stockwatch/lib/htmlutil"
	"stockwatch/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// class token marking the primary buy action on known storefronts
const buyButtonClass = "btn-yellow"

// selectors observed on known PDP snapshots, probed in order
var priceSelectors = []string{
	`[data-testid="brow-product-price"]`,
	`span[class^="ProductInformation_price__"]`,
	`p[class^="ProductInfo_productPrice__"]`,
}

// buttonInStock reads the stock state off the primary buy button, if
// one exists. "notify" buttons are back-in-stock signups, which means
// the product is not purchasable right now.
func buttonInStock(doc *goquery.Document) *bool {
	var button *goquery.Selection
	doc.Find("button").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if htmlutil.HasClassToken(s, buyButtonClass) {
			button = s
			return false
		}
		return true
	})
	if button == nil {
		return nil
	}

	text := textutil.Normalize(htmlutil.JoinedText(button))
	switch {
	case strings.Contains(text, "out of stock"):
		return boolPtr(false)
	case textutil.ContainsAny(text, "add to cart", "add to bag"):
		return boolPtr(true)
	case strings.Contains(text, "notify"):
		return boolPtr(false)
	}
	return nil
}

// tokenInStock maps a structured-data availability token like
// "https://schema.org/InStock" onto a stock state.
func tokenInStock(availabilityRaw string) *bool {
	if availabilityRaw == "" {
		return nil
	}
	token := strings.ToLower(availabilityRaw)
	if strings.Contains(token, "instock") {
		return boolPtr(true)
	}
	if strings.Contains(token, "outofstock") {
		return boolPtr(false)
	}
	return nil
}

// textInStock is the last resort: keyword search over the whole
// document text. The out-of-stock phrase wins over add-to-cart since
// pages often render both (e.g. a disabled cart section).
func textInStock(doc *goquery.Document) *bool {
	text := textutil.Normalize(htmlutil.JoinedText(doc.Selection))
	if strings.Contains(text, "out of stock") {
		return boolPtr(false)
	}
	if textutil.ContainsAny(text, "add to cart", "add to bag") {
		return boolPtr(true)
	}
	return nil
}

// priceFromDOM probes the known price selectors in order, falling
// back to product/og meta tags only when no selector matches at all.
// A matched element with empty text still ends the probe.
func priceFromDOM(doc *goquery.Document) string {
	for _, sel := range priceSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		return htmlutil.NodeText(node)
	}

	if amount := htmlutil.MetaContent(doc, "product:price:amount"); amount != "" {
		return amount
	}
	return htmlutil.MetaContent(doc, "og:price:amount")
}

// extractTitle prefers the og:title meta tag, then the first
// non-empty h1, then the caller-supplied name.
func extractTitle(doc *goquery.Document, fallback string) string {
	if title := htmlutil.MetaContent(doc, "og:title"); title != "" {
		return title
	}

	heading := ""
	doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		heading = htmlutil.NodeText(s)
		return heading == ""
	})
	if heading != "" {
		return heading
	}
	return fallback
}

func boolPtr(v bool) *bool {
	return &v
}
