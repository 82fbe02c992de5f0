package pdp

import (
	"context"
	"strings"

	"stockwatch/lib/htmlutil"
	"stockwatch/lib/jsontree"

	"github.com/PuerkitoBio/goquery"
)

// offerFields is what a schema.org Product offer yields. Prices keep
// the exact decimal representation found in the document.
type offerFields struct {
	Availability string
	Price        string
	Currency     string
}

// extractJSONLD scans every JSON-LD script for a Product record and
// returns the fields of its first offer. Scripts that fail to parse
// are skipped, top-level arrays are flattened one level keeping only
// objects. The first Product in document order wins.
func extractJSONLD(ctx context.Context, doc *goquery.Document) offerFields {
	ctx, span := tracer.Start(ctx, "extractJSONLD")
	defer span.End()

	var records []jsontree.Value
	for _, node := range doc.Find(`script[type="application/ld+json"]`).Nodes {
		text := strings.TrimSpace(htmlutil.GetText(node))
		if text == "" {
			continue
		}
		parsed, err := jsontree.Parse([]byte(text))
		if err != nil {
			continue
		}
		switch parsed.Kind() {
		case jsontree.Array:
			for _, item := range parsed.Items() {
				if item.Kind() == jsontree.Object {
					records = append(records, item)
				}
			}
		case jsontree.Object:
			records = append(records, parsed)
		}
	}

	for _, rec := range records {
		typ, ok := rec.Get("@type")
		if !ok || typ.Str() != "Product" {
			continue
		}

		offer, _ := rec.Get("offers")
		if offer.Kind() == jsontree.Array {
			items := offer.Items()
			if len(items) > 0 {
				offer = items[0]
			} else {
				offer = jsontree.Value{}
			}
		}

		var fields offerFields
		if a, ok := offer.Get("availability"); ok {
			fields.Availability = a.Scalar()
		}
		if p, ok := offer.Get("price"); ok {
			fields.Price = p.Scalar()
		}
		if c, ok := offer.Get("priceCurrency"); ok {
			fields.Currency = c.Scalar()
		}
		return fields
	}

	return offerFields{}
}
