package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupFetchServer(t *testing.T) (*httptest.Server, *string) {
	agent := new(string)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*agent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)
	return server, agent
}

func TestFetcherUserAgentFromConfig(t *testing.T) {
	server, agent := setupFetchServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	fetcher := NewFetcher(FetchConfig{UserAgent: "stockwatch-test/1.0"})
	body, err := fetcher.HTML(ctx, server.URL)
	require.NoError(t, err)
	require.Equal(t, "ok", body)
	require.Equal(t, "stockwatch-test/1.0", *agent)
}

func TestFetcherDefaultUserAgent(t *testing.T) {
	server, agent := setupFetchServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	fetcher := NewFetcher(FetchConfig{})
	_, err := fetcher.HTML(ctx, server.URL)
	require.NoError(t, err)
	require.Equal(t, defaultUserAgent, *agent)
}

func TestFetcherTimeoutFallback(t *testing.T) {
	require.Equal(t, defaultFetchTimeout, NewFetcher(FetchConfig{}).client.GetClient().Timeout)
	require.Equal(t, time.Second*5, NewFetcher(FetchConfig{TimeoutSeconds: 5}).client.GetClient().Timeout)
}
