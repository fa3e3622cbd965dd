package webmention

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/doyensec/safeurl"
)

const (
	userAgent = "barker/1.0 (webmention)"

	// remote documents larger than this are truncated
	maxBodySize = 1 << 20

	fetchTimeout = 10 * time.Second
)

// A Document is a fetched remote document.
type Document struct {
	// Body is the response body, truncated to maxBodySize.
	Body []byte
	// Header is the response header.
	Header http.Header
	// URL is the final URL of the document after redirects. Relative
	// references in the document resolve against it.
	URL *url.URL
}

// A Fetcher fetches remote documents on behalf of the webmention engine.
// Every URL it touches is attacker-controlled, so the default client blocks
// requests that would reach private or link-local addresses.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher that uses the given client. A nil client
// selects the SSRF-guarded default.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = SafeClient()
	}
	return &Fetcher{client: client}
}

// SafeClient returns an http.Client that refuses to connect to private,
// loopback and link-local addresses, including after DNS resolution.
func SafeClient() *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(fetchTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}

// Get fetches the document at the given URL. Any non-2xx response is an
// error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	return &Document{
		Body:   body,
		Header: resp.Header,
		URL:    finalURL,
	}, nil
}
