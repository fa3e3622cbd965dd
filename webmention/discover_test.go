package webmention

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverEndpoint(t *testing.T) {
	fetch := NewFetcher(http.DefaultClient)

	t.Run("Assert Link header beats the document link", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Link", `<https://site.test/wm>; rel="webmention"`)
			w.Write([]byte(`<html><head><link rel="webmention" href="https://other/wm"></head></html>`))
		}))
		defer srv.Close()

		endpoint, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.NoError(err)
		require.Equal("https://site.test/wm", endpoint)
	})

	t.Run("Assert unquoted rel is recognised", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Link", `<https://site.test/wm>; rel=webmention`)
		}))
		defer srv.Close()

		endpoint, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.NoError(err)
		require.Equal("https://site.test/wm", endpoint)
	})

	t.Run("Assert rel lists and multiple links are handled", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Link", `<https://cdn.example/style.css>; rel="preload"`)
			w.Header().Add("Link", `<https://feed.example/atom>; rel="alternate", <https://site.test/wm>; rel="something webmention"`)
		}))
		defer srv.Close()

		endpoint, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.NoError(err)
		require.Equal("https://site.test/wm", endpoint)
	})

	t.Run("Assert document link is used when no header matches", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><link rel="webmention" href="https://other/wm"></head></html>`))
		}))
		defer srv.Close()

		endpoint, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.NoError(err)
		require.Equal("https://other/wm", endpoint)
	})

	t.Run("Assert relative endpoints resolve against the final url", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><link rel="webmention" href="/wm"></head></html>`))
		}))
		defer srv.Close()

		endpoint, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.NoError(err)
		require.Equal(srv.URL+"/wm", endpoint)
	})

	t.Run("Assert missing endpoint fails with ErrNoEndpoint", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html><head><title>nothing here</title></head></html>`))
		}))
		defer srv.Close()

		_, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.ErrorIs(err, ErrNoEndpoint)
	})

	t.Run("Assert non-2xx target is fatal", func(t *testing.T) {
		require := require.New(t)

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusGone)
		}))
		defer srv.Close()

		_, err := fetch.DiscoverEndpoint(context.Background(), srv.URL)
		require.Error(err)
		require.NotErrorIs(err, ErrNoEndpoint)
	})
}

func TestEndpointFromLinkHeader(t *testing.T) {
	require := require.New(t)

	for value, want := range map[string]string{
		`<https://a/wm>; rel="webmention"`:                        "https://a/wm",
		`<https://a/wm>; rel=webmention`:                          "https://a/wm",
		`<https://a/wm>; rel="webmention"; title="x"`:             "https://a/wm",
		`<https://a/x>; rel="other", <https://a/wm>; rel="webmention"`: "https://a/wm",
	} {
		got, ok := endpointFromLinkHeader(value)
		require.True(ok, value)
		require.Equal(want, got)
	}

	for _, value := range []string{
		`<https://a/wm>; rel="nope"`,
		`<https://a/wm>`,
		`https://a/wm; rel="webmention"`,
		``,
	} {
		_, ok := endpointFromLinkHeader(value)
		require.False(ok, value)
	}
}
