package monitor

import (
	"context"
	"fmt"
	"time"

	"stockwatch/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// storefronts tend to serve bot-detection interstitials to obviously
// non-browser agents, so the default mimics a desktop browser
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

const defaultFetchTimeout = time.Second * 20

// FetchConfig is the fetch section of the monitor config. The user
// agent is an explicit configuration value rather than a process-wide
// constant so separate monitors can present separate agents.
type FetchConfig struct {
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Fetcher retrieves product pages. It is the only I/O on the check
// path besides notification delivery.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher(config FetchConfig) Fetcher {
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := defaultFetchTimeout
	if config.TimeoutSeconds > 0 {
		timeout = time.Duration(config.TimeoutSeconds) * time.Second
	}

	client := resty.New()
	client.SetHeader("user-agent", userAgent)
	client.SetTimeout(timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	telemetry.InstrumentResty(client, "monitor/http")

	return Fetcher{client: client}
}

// HTML fetches the page body for a product url. Any non-2xx status
// is an error, the caller decides whether to keep checking other
// products.
func (f Fetcher) HTML(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", err
	}
	if res.IsError() {
		return "", fmt.Errorf("GET %s: %s", url, res.Status())
	}
	return res.String(), nil
}
