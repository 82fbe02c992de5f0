package pdp

import (
	"context"
	"slices"
	"strings"

	"stockwatch/lib/htmlutil"
	"stockwatch/lib/jsontree"

	"github.com/PuerkitoBio/goquery"
)

// inlineFields is what an embedded state blob yields for one product.
type inlineFields struct {
	InStock  *bool
	Price    string
	Currency string
}

// extractInlineScripts walks every script whose body looks like JSON
// and tries to recover stock and price for the given SKU, falling
// back to a generic variant record when the SKU is absent. The first
// script that yields anything stops the scan, even if some of its
// fields remain unknown.
func extractInlineScripts(ctx context.Context, doc *goquery.Document, sku string) inlineFields {
	ctx, span := tracer.Start(ctx, "extractInlineScripts")
	defer span.End()

	for _, node := range doc.Find("script").Nodes {
		text := strings.TrimSpace(htmlutil.GetText(node))
		if text == "" || (text[0] != '{' && text[0] != '[') {
			continue
		}
		data, err := jsontree.Parse([]byte(text))
		if err != nil {
			// javascript that merely starts with a brace, or truncated
			// state blobs. not an error worth surfacing.
			continue
		}

		if sku != "" {
			if fields, ok := extractSKURecord(data, sku); ok {
				return fields
			}
		}
		if fields, ok := extractVariantRecord(data); ok {
			return fields
		}
	}

	return inlineFields{}
}

// rankSKURecord orders SKU candidates: records that declare price
// data outrank those that do not, then records that declare stock
// data. Lower is better.
func rankSKURecord(v jsontree.Value) int {
	rank := 0
	if !v.Has("price") && !v.Has("prices") {
		rank += 2
	}
	if !v.Has("isOnStock") && !v.Has("availableQuantity") {
		rank++
	}
	return rank
}

func extractSKURecord(data jsontree.Value, sku string) (inlineFields, bool) {
	candidates := jsontree.FindSKU(data, sku)
	if len(candidates) == 0 {
		return inlineFields{}, false
	}

	// stable sort keeps document order among equally ranked records
	slices.SortStableFunc(candidates, func(a, b jsontree.Value) int {
		return rankSKURecord(a) - rankSKURecord(b)
	})
	best := candidates[0]

	var fields inlineFields
	if price, ok := best.Get("price"); ok && price.Kind() == jsontree.Object {
		fields.Price, fields.Currency = moneyFields(price)
	}
	if onStock, ok := best.Get("isOnStock"); ok {
		if b, ok := onStock.Bool(); ok {
			fields.InStock = &b
		}
	}
	return fields, true
}

func extractVariantRecord(data jsontree.Value) (inlineFields, bool) {
	variant, ok := jsontree.FindVariant(data)
	if !ok {
		return inlineFields{}, false
	}

	fields := inlineFields{InStock: channelsInStock(variant)}

	prices, ok := variant.Get("prices")
	if !ok || prices.Kind() != jsontree.Array || len(prices.Items()) == 0 {
		return fields, true
	}
	entry := prices.Items()[0]
	for _, e := range prices.Items() {
		if country, ok := e.Get("country"); ok && country.Str() == "US" {
			entry = e
			break
		}
	}
	if value, ok := entry.Get("value"); ok && value.Kind() == jsontree.Object {
		fields.Price, fields.Currency = moneyFields(value)
	}
	return fields, true
}

// channelsInStock derives stock state from a variant's
// availability.channels map: in stock when any channel both flags
// isOnStock and reports a positive quantity. No channels means the
// state is unknown, not out of stock.
func channelsInStock(variant jsontree.Value) *bool {
	availability, ok := variant.Get("availability")
	if !ok {
		return nil
	}
	channels, ok := availability.Get("channels")
	if !ok || channels.Kind() != jsontree.Object || len(channels.Members()) == 0 {
		return nil
	}

	inStock := false
	for _, ch := range channels.Members() {
		if ch.Value.Kind() != jsontree.Object {
			continue
		}
		onStock, _ := ch.Value.Get("isOnStock")
		flag, ok := onStock.Bool()
		if !ok || !flag {
			continue
		}
		qty, _ := ch.Value.Get("availableQuantity")
		if n, ok := qty.Number(); ok {
			if f, err := n.Float64(); err == nil && f > 0 {
				inStock = true
				break
			}
		}
	}
	return &inStock
}
