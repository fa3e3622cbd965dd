package webmention

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSendAll(t *testing.T) {
	require := require.New(t)

	// endpoint collects the webmention POSTs
	var (
		mu    sync.Mutex
		posts []map[string]string
	)
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(r.ParseForm())
		require.Equal("application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		mu.Lock()
		posts = append(posts, map[string]string{
			"source": r.PostForm.Get("source"),
			"target": r.PostForm.Get("target"),
		})
		mu.Unlock()
	}))
	defer endpoint.Close()

	// target advertising the endpoint via header
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="webmention"`, endpoint.URL))
	}))
	defer target.Close()

	// target with no endpoint
	bare := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>plain</body></html>"))
	}))
	defer bare.Close()

	// target whose endpoint rejects the notification
	badEndpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer badEndpoint.Close()
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="webmention"`, badEndpoint.URL))
	}))
	defer rejecting.Close()

	// the published page linking to all three targets
	source := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href=%q>good</a>
			<a href=%q>bare</a>
			<a href=%q>rejecting</a>
		</body></html>`, target.URL, bare.URL, rejecting.URL)
	}))
	defer source.Close()

	sender := NewSender(NewFetcher(http.DefaultClient), nil)
	sender.SendAll(context.Background(), source.URL+"/notes/1")

	mu.Lock()
	defer mu.Unlock()
	require.Len(posts, 1)
	require.Equal(source.URL+"/notes/1", posts[0]["source"])
	require.Equal(target.URL, posts[0]["target"])
}

func TestSendAllUnfetchableSource(t *testing.T) {
	// must not panic or error; nothing to assert beyond returning
	sender := NewSender(NewFetcher(http.DefaultClient), nil)
	sender.SendAll(context.Background(), "http://127.0.0.1:1/absent")
}
