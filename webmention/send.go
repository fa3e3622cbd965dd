package webmention

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"

	"github.com/carlmjohnson/requests"
	"github.com/tfnch/barker/metrics"
)

// A Sender fans out webmention notifications for a freshly published page.
type Sender struct {
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewSender returns a Sender that discovers endpoints through the given
// fetcher.
func NewSender(fetcher *Fetcher, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{fetcher: fetcher, logger: logger}
}

// SendAll fetches the page at source, extracts its links, and POSTs a
// webmention to each target that advertises an endpoint. Every step is best
// effort: a failing target is logged and skipped, and the batch never fails.
func (s *Sender) SendAll(ctx context.Context, source string) {
	doc, err := s.fetcher.Get(ctx, source)
	if err != nil {
		s.logger.Warn("webmention fan-out: cannot fetch source", "source", source, "error", err)
		return
	}

	for _, target := range ExtractLinks(bytes.NewReader(doc.Body)) {
		endpoint, err := s.fetcher.DiscoverEndpoint(ctx, target)
		if err != nil {
			s.logger.Info("webmention fan-out: no endpoint", "target", target, "error", err)
			metrics.MentionsSent.WithLabelValues("no_endpoint").Inc()
			continue
		}
		if err := s.notify(ctx, endpoint, source, target); err != nil {
			s.logger.Warn("webmention fan-out: notify failed", "endpoint", endpoint, "target", target, "error", err)
			metrics.MentionsSent.WithLabelValues("error").Inc()
			continue
		}
		s.logger.Info("webmention sent", "endpoint", endpoint, "target", target)
		metrics.MentionsSent.WithLabelValues("ok").Inc()
	}
}

// notify POSTs source and target to the endpoint as a form.
func (s *Sender) notify(ctx context.Context, endpoint, source, target string) error {
	return requests.URL(endpoint).
		Client(s.fetcher.client).
		UserAgent(userAgent).
		BodyForm(url.Values{
			"source": []string{source},
			"target": []string{target},
		}).
		Fetch(ctx)
}
