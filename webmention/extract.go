package webmention

import (
	"io"
	"net/url"
	"strings"

	"github.com/tfnch/barker/internal/algorithms"
	"golang.org/x/net/html"
)

// ExtractLinks returns the deduplicated set of absolute http(s) URLs found
// in anchor hrefs of the given HTML document, in first-seen order.
func ExtractLinks(r io.Reader) []string {
	doc, err := html.Parse(r)
	if err != nil {
		return nil
	}

	var hrefs []string
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href, ok := attr(n, "href"); ok {
				hrefs = append(hrefs, strings.TrimSpace(href))
			}
		}
	})

	return algorithms.Uniq(algorithms.Filter(hrefs, isAbsoluteHTTP))
}

// isAbsoluteHTTP reports whether s parses as an absolute URL whose scheme is
// exactly http or https.
func isAbsoluteHTTP(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// walk calls fn for every node of the tree rooted at n, depth first.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// attr returns the value of the named attribute of n.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
