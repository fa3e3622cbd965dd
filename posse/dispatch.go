package posse

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tfnch/barker/metrics"
)

// An Intent is one entity to syndicate: the composed status material plus,
// for pictures, the stored original to attach.
type Intent struct {
	Title          string
	URL            string
	ContentWarning string
	// MediaFile is the filesystem path of the original image, if any.
	MediaFile string
}

// A Dispatcher submits intents to the syndication server. Whether an entity
// should be syndicated at all is decided by the caller from the entity's
// persisted flags; the dispatcher submits exactly once and never retries.
type Dispatcher struct {
	source     *Source
	visibility Visibility
	logger     *slog.Logger
}

// NewDispatcher returns a Dispatcher posting with the given visibility.
func NewDispatcher(source *Source, visibility Visibility, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{source: source, visibility: visibility, logger: logger}
}

// Syndicate submits the intent. Failures are logged and dropped.
func (d *Dispatcher) Syndicate(ctx context.Context, intent Intent) {
	client, err := d.source.Client()
	if err != nil {
		d.logger.Error("syndication: no credentials", "error", err)
		metrics.Syndications.WithLabelValues("error").Inc()
		return
	}

	status := Status{
		Status:     fmt.Sprintf("%s (%s)", intent.Title, intent.URL),
		Visibility: d.visibility,
	}
	if intent.ContentWarning != "" {
		status.Sensitive = true
		status.SpoilerText = intent.ContentWarning
	}

	if intent.MediaFile != "" {
		id, err := client.UploadMedia(ctx, intent.MediaFile)
		if err != nil {
			d.logger.Error("syndication: media upload failed", "file", intent.MediaFile, "error", err)
			metrics.Syndications.WithLabelValues("error").Inc()
			return
		}
		status.MediaIDs = []string{id}
	}

	if err := client.PostStatus(ctx, status); err != nil {
		d.logger.Error("syndication failed", "url", intent.URL, "error", err)
		metrics.Syndications.WithLabelValues("error").Inc()
		return
	}

	d.logger.Info("syndicated", "url", intent.URL, "visibility", d.visibility)
	metrics.Syndications.WithLabelValues("ok").Inc()
}
