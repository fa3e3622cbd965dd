package webmention

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tfnch/barker/internal/httpx"
	"github.com/tfnch/barker/metrics"
	"github.com/tfnch/barker/models"
)

// Receive handles POST /webmentions. It validates the (source, target)
// pair, verifies that the source really links to the target, stores the
// mention idempotently, and hands external sources off for operator
// notification. Duplicates are not errors.
func Receive(e *Env, w http.ResponseWriter, r *http.Request) error {
	var params struct {
		Source string `schema:"source" json:"source"`
		Target string `schema:"target" json:"target"`
	}
	if err := httpx.Params(r, &params); err != nil {
		metrics.MentionsReceived.WithLabelValues("invalid").Inc()
		return err
	}

	source, err := parseAbsoluteHTTP(params.Source)
	if err != nil {
		metrics.MentionsReceived.WithLabelValues("invalid").Inc()
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("source: %w", err))
	}
	target, err := parseAbsoluteHTTP(params.Target)
	if err != nil {
		metrics.MentionsReceived.WithLabelValues("invalid").Inc()
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("target: %w", err))
	}

	if target.Host != e.SiteHost {
		metrics.MentionsReceived.WithLabelValues("invalid").Inc()
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("target host %q is not this site", target.Host))
	}

	mentions := models.NewMentions(e.DB)

	// an unresolvable target is still stored, unassociated, for forensics
	kind, id := models.KindArticle, uint(0)
	if k, i, ok := ParseTarget(target); ok {
		exists, err := mentions.TargetExists(k, i)
		if err != nil {
			return err
		}
		if exists {
			kind, id = k, i
		}
	}

	doc, err := e.Fetcher.Get(r.Context(), source.String())
	if err != nil {
		metrics.MentionsReceived.WithLabelValues("invalid").Inc()
		return httpx.Error(http.StatusBadRequest, fmt.Errorf("source url invalid"))
	}

	// verification: the source must contain the literal target URL
	if !bytes.Contains(doc.Body, []byte(params.Target)) {
		metrics.MentionsReceived.WithLabelValues("invalid").Inc()
		return httpx.Error(http.StatusBadRequest, errors.New("source url invalid"))
	}

	exists, err := mentions.Exists(params.Source, params.Target)
	if err != nil {
		return err
	}
	if exists {
		metrics.MentionsReceived.WithLabelValues("duplicate").Inc()
		return ok(w)
	}

	title, author := ExtractMeta(bytes.NewReader(doc.Body))
	if author == "" {
		author = "unknown"
	}

	if _, err := mentions.Create(params.Source, params.Target, kind, id, author, title, Excerpt(doc.Body)); err != nil {
		// a concurrent receipt of the same pair won the race; same answer
		if models.IsDuplicate(err) {
			metrics.MentionsReceived.WithLabelValues("duplicate").Inc()
			return ok(w)
		}
		return err
	}

	e.Log().Info("webmention accepted", "source", params.Source, "target", params.Target, "author", author)
	metrics.MentionsReceived.WithLabelValues("accepted").Inc()

	if source.Host != e.SiteHost && e.Notify != nil {
		e.Notify(params.Source, params.Target)
	}

	return ok(w)
}

func ok(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := io.WriteString(w, "OK")
	return err
}

// parseAbsoluteHTTP parses s as an absolute http(s) URL.
func parseAbsoluteHTTP(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("not an absolute http(s) url: %q", s)
	}
	return u, nil
}
