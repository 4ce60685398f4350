package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Client retrieves feed documents through an HTTP relay. The relay takes the
// target feed URL percent-encoded as its query parameter.
type Client struct {
	http  *http.Client
	relay string
}

func NewClient(relay string) *Client {
	// No explicit deadline: timeouts are left to the transport. The
	// scheduler tracks a soft loading budget per source for diagnostics.
	return &Client{http: &http.Client{}, relay: relay}
}

// Fetch retrieves one feed document. Any non-2xx status counts as a failure
// for that source.
func (c *Client) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.relay+url.QueryEscape(feedURL), nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("relay returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading feed body: %w", err)
	}
	return string(body), nil
}
