package webmention

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoEndpoint is returned when a target advertises no webmention endpoint.
var ErrNoEndpoint = errors.New("webmention: no endpoint")

// DiscoverEndpoint locates the webmention endpoint of the given target URL.
// A rel=webmention Link header takes precedence over a <link rel=webmention>
// element in the document. The endpoint is resolved against the final
// response URL and returned as-is.
func (f *Fetcher) DiscoverEndpoint(ctx context.Context, target string) (string, error) {
	doc, err := f.Get(ctx, target)
	if err != nil {
		return "", err
	}

	for _, value := range doc.Header.Values("Link") {
		if raw, ok := endpointFromLinkHeader(value); ok {
			return resolveEndpoint(doc.URL, raw)
		}
	}

	if raw, ok := endpointFromDocument(bytes.NewReader(doc.Body)); ok {
		return resolveEndpoint(doc.URL, raw)
	}

	return "", ErrNoEndpoint
}

// endpointFromLinkHeader extracts the URL of the first rel=webmention link
// in a Link header value. The rel parameter may be quoted or bare, and may
// carry multiple whitespace-separated relations.
func endpointFromLinkHeader(value string) (string, bool) {
	for _, link := range strings.Split(value, ",") {
		params := strings.Split(link, ";")
		target := strings.TrimSpace(params[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range params[1:] {
			name, val, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(name), "rel") {
				continue
			}
			val = strings.Trim(strings.TrimSpace(val), `"`)
			for _, rel := range strings.Fields(val) {
				if strings.EqualFold(rel, "webmention") {
					return strings.TrimSuffix(strings.TrimPrefix(target, "<"), ">"), true
				}
			}
		}
	}
	return "", false
}

// endpointFromDocument returns the href of the first <link rel=webmention>
// or <a rel=webmention> element in the document.
func endpointFromDocument(r io.Reader) (string, bool) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", false
	}

	var href string
	var found bool
	walk(doc, func(n *html.Node) {
		if found || n.Type != html.ElementNode {
			return
		}
		if n.Data != "link" && n.Data != "a" {
			return
		}
		rel, ok := attr(n, "rel")
		if !ok {
			return
		}
		for _, r := range strings.Fields(rel) {
			if strings.EqualFold(r, "webmention") {
				if h, ok := attr(n, "href"); ok {
					href, found = h, true
				}
				return
			}
		}
	})
	return href, found
}

// resolveEndpoint resolves the discovered endpoint against the final
// response URL of the target document.
func resolveEndpoint(base *url.URL, raw string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
