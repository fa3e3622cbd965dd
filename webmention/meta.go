package webmention

import (
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

const maxExcerptLen = 255

var excerptPolicy = bluemonday.StrictPolicy()

// ExtractMeta returns the <title> text and the content of the first
// <meta name=author> element of the document. Either may be empty.
func ExtractMeta(r io.Reader) (title, author string) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", ""
	}

	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode {
			return
		}
		switch n.Data {
		case "title":
			if title == "" {
				title = strings.TrimSpace(text(n))
			}
		case "meta":
			if author != "" {
				return
			}
			if name, _ := attr(n, "name"); strings.EqualFold(name, "author") {
				content, _ := attr(n, "content")
				author = strings.TrimSpace(content)
			}
		}
	})
	return title, author
}

// Excerpt strips all markup from the document body and returns the leading
// run of its text, whitespace collapsed.
func Excerpt(body []byte) string {
	stripped := excerptPolicy.SanitizeBytes(body)
	collapsed := strings.Join(strings.Fields(string(stripped)), " ")
	runes := []rune(collapsed)
	if len(runes) > maxExcerptLen {
		return string(runes[:maxExcerptLen])
	}
	return collapsed
}

// text returns the concatenated text content of the tree rooted at n.
func text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	})
	return sb.String()
}
