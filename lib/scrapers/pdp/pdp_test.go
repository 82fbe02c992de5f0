package pdp

import (
	"context"
	"testing"

	"stockwatch/lib/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, html, fallbackName, url string) ProductStatus {
	t.Helper()
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/pdp")
	defer cleanup()
	return ParseStatus(context.Background(), html, fallbackName, url)
}

func TestJSONLDInStock(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "offers": {"availability": "https://schema.org/InStock", "price": 1299.95, "priceCurrency": "USD"}}
		</script>
	</head><body></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
	require.Equal(t, "1299.95", status.Price)
	require.Equal(t, "USD", status.Currency)
	require.Equal(t, "https://schema.org/InStock", status.AvailabilityRaw)
}

func TestJSONLDOutOfStockOverridesButtonText(t *testing.T) {
	// the structured-data token outranks the buy button even though
	// the button says the product is purchasable
	html := `<html><head>
		<script type="application/ld+json">
		{"@type": "Product", "offers": {"availability": "OutOfStock"}}
		</script>
	</head><body>
		<button class="btn btn-yellow">Add to Cart</button>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.False(t, *status.InStock)
}

func TestJSONLDListFlattenedAndFirstProductWins(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		[{"@type": "BreadcrumbList"},
		 {"@type": "Product", "offers": [{"availability": "InStock", "price": "899", "priceCurrency": "EUR"}]},
		 {"@type": "Product", "offers": {"price": "999"}}]
		</script>
	</head><body></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.Equal(t, "899", status.Price)
	require.Equal(t, "EUR", status.Currency)
}

func TestInlineSKURecord(t *testing.T) {
	html := `<html><body>
		<script>
		{"results": {"sku": "ABC123", "price": {"centAmount": 129900, "fractionDigits": 2, "currencyCode": "USD"}, "isOnStock": true}}
		</script>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/ABC123")
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
	require.Equal(t, "1299.00", status.Price)
	require.Equal(t, "USD", status.Currency)
}

func TestInlineSKURankingPrefersPricedRecord(t *testing.T) {
	// the record carrying price data wins regardless of document order
	html := `<html><body>
		<script>
		[{"sku": "ABC123"},
		 {"sku": "ABC123", "price": {"centAmount": 129900, "fractionDigits": 2, "currencyCode": "USD"}, "isOnStock": true}]
		</script>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/ABC123")
	require.Equal(t, "1299.00", status.Price)
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
}

func TestInlineVariantQuantityGate(t *testing.T) {
	// isOnStock true alone is not enough, the channel must also have
	// quantity available
	html := `<html><body>
		<script>
		{"masterVariant": {"availability": {"channels": {"c1": {"isOnStock": true, "availableQuantity": 0}}}, "prices": []}}
		</script>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/OTHER")
	require.NotNil(t, status.InStock)
	require.False(t, *status.InStock)
}

func TestInlineVariantPrefersUSPrice(t *testing.T) {
	html := `<html><body>
		<script>
		{"masterVariant": {
			"availability": {"channels": {"c1": {"isOnStock": true, "availableQuantity": 4}}},
			"prices": [
				{"country": "DE", "value": {"centAmount": 119900, "fractionDigits": 2, "currencyCode": "EUR"}},
				{"country": "US", "value": {"centAmount": 129900, "fractionDigits": 2, "currencyCode": "USD"}}
			]
		}}
		</script>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/OTHER")
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
	require.Equal(t, "1299.00", status.Price)
	require.Equal(t, "USD", status.Currency)
}

func TestInlineVariantNoChannelsIsUnknown(t *testing.T) {
	html := `<html><body>
		<script>
		{"masterVariant": {"availability": {"channels": {}}, "prices": []}}
		</script>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/OTHER")
	require.Nil(t, status.InStock)
}

func TestButtonText(t *testing.T) {
	testCases := []struct {
		label    string
		expected bool
	}{
		{"Add to Cart", true},
		{"Add to Bag", true},
		{"Out of Stock", false},
		{"Notify Me When Available", false},
	}

	for _, test := range testCases {
		html := `<html><body><button class="btn btn-yellow">` + test.label + `</button></body></html>`
		status := parse(t, html, "fallback", "https://example.com/product/123")
		require.NotNil(t, status.InStock, "label %q", test.label)
		require.Equal(t, test.expected, *status.InStock, "label %q", test.label)
	}
}

func TestPageTextFallback(t *testing.T) {
	// no structured data, no inline JSON, no marked buy button
	html := `<html><body><div>Hurry! Add to Cart while supplies last.</div></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
	require.Equal(t, "", status.Price)
}

func TestPageTextOutOfStockWinsOverAddToCart(t *testing.T) {
	html := `<html><body><p>Out of stock.</p><p>Add to cart</p></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.False(t, *status.InStock)
}

func TestButtonTextSplitAcrossInlineElements(t *testing.T) {
	// word boundaries between adjacent spans must survive text
	// extraction, otherwise the phrase reads "add tocart"
	html := `<html><body><button class="btn btn-yellow"><span>Add to</span><span>Cart</span></button></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
}

func TestPageTextSplitAcrossInlineElements(t *testing.T) {
	html := `<html><body><p><span>Out of</span><span>stock</span> everywhere.</p></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.False(t, *status.InStock)
}

func TestMalformedScriptsAreSkipped(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">{this is not json</script>
		<script type="application/ld+json">{"@type": "Product", "offers": {"availability": "InStock"}}</script>
	</head><body>
		<script>{ broken inline</script>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.NotNil(t, status.InStock)
	require.True(t, *status.InStock)
}

func TestPriceSelectorFallback(t *testing.T) {
	html := `<html><body>
		<span data-testid="brow-product-price"> $2,996.95 </span>
	</body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.Equal(t, "$2,996.95", status.Price)
}

func TestPriceMetaFallback(t *testing.T) {
	html := `<html><head>
		<meta property="product:price:amount" content="499.99">
		<meta property="product:price:currency" content="USD">
	</head><body></body></html>`

	status := parse(t, html, "fallback", "https://example.com/product/123")
	require.Equal(t, "499.99", status.Price)
	require.Equal(t, "USD", status.Currency)
}

func TestTitlePrecedence(t *testing.T) {
	testCases := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "og:title wins",
			html:     `<html><head><meta property="og:title" content="Meta Name"></head><body><h1>Heading</h1></body></html>`,
			expected: "Meta Name",
		},
		{
			name:     "first non-empty heading",
			html:     `<html><body><h1>  </h1><h1>Heading Name</h1></body></html>`,
			expected: "Heading Name",
		},
		{
			name:     "fallback",
			html:     `<html><body></body></html>`,
			expected: "fallback",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			status := parse(t, test.html, "fallback", "https://example.com/product/123")
			require.Equal(t, test.expected, status.Name)
		})
	}
}

func TestParseStatusIsDeterministic(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Camera">
		<script>{"sku": "XYZ", "price": {"centAmount": 50000, "currencyCode": "USD"}, "isOnStock": false}</script>
	</head><body><button class="btn-yellow">Notify Me</button></body></html>`

	first := parse(t, html, "fallback", "https://example.com/product/XYZ")
	for i := 0; i < 10; i++ {
		again := parse(t, html, "fallback", "https://example.com/product/XYZ")
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("parse is not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestNonHTMLInputYieldsUnknowns(t *testing.T) {
	status := parse(t, "\x00\x01 garbage that is not html", "fallback", "https://example.com/product/123")
	require.Equal(t, "fallback", status.Name)
	require.Nil(t, status.InStock)
	require.Equal(t, "", status.Price)
	require.Equal(t, "", status.Currency)
}

func TestSKUFromURL(t *testing.T) {
	require.Equal(t, "ABC123", SKUFromURL("https://example.com/product/ABC123"))
	require.Equal(t, "ABC123", SKUFromURL("https://example.com/product/ABC123/"))
	require.Equal(t, "example.com", SKUFromURL("https://example.com/"))
}
