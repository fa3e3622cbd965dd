package webmention

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractMeta(t *testing.T) {
	require := require.New(t)

	t.Run("Assert title and author are found", func(t *testing.T) {
		title, author := ExtractMeta(strings.NewReader(`<html><head>
			<title>  A fine post  </title>
			<meta name="author" content="Alice Example">
		</head></html>`))
		require.Equal("A fine post", title)
		require.Equal("Alice Example", author)
	})

	t.Run("Assert missing metadata yields empty strings", func(t *testing.T) {
		title, author := ExtractMeta(strings.NewReader(`<html><body><p>hi</p></body></html>`))
		require.Empty(title)
		require.Empty(author)
	})

	t.Run("Assert unrelated meta tags are ignored", func(t *testing.T) {
		_, author := ExtractMeta(strings.NewReader(`<head>
			<meta name="description" content="not the author">
			<meta name="AUTHOR" content="Bob">
		</head>`))
		require.Equal("Bob", author)
	})
}

func TestExcerpt(t *testing.T) {
	require := require.New(t)

	t.Run("Assert markup is stripped and whitespace collapsed", func(t *testing.T) {
		got := Excerpt([]byte("<p>Hello   <b>world</b></p>\n<p>more</p>"))
		require.Equal("Hello world more", got)
	})

	t.Run("Assert long text is truncated by runes", func(t *testing.T) {
		got := Excerpt([]byte(strings.Repeat("ü", 400)))
		require.Equal(255, len([]rune(got)))
	})
}
