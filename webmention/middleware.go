package webmention

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// LinkHeader returns middleware that advertises the site's webmention
// endpoint on every response.
func LinkHeader(baseURI string) func(http.Handler) http.Handler {
	value := fmt.Sprintf(`<%s/webmentions>; rel="webmention"`, strings.TrimSuffix(baseURI, "/"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Link", value)
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit returns middleware that limits each client IP to r requests per
// second with the given burst. Over-limit requests get 429.
func RateLimit(r rate.Limit, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiter := func(addr string) *rate.Limiter {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		mu.Lock()
		defer mu.Unlock()
		// crude bound on the table; a scan that rotates addresses only
		// resets its own budget
		if len(limiters) > 4096 {
			limiters = make(map[string]*rate.Limiter)
		}
		l, ok := limiters[host]
		if !ok {
			l = rate.NewLimiter(r, burst)
			limiters[host] = l
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !limiter(req.RemoteAddr).Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
