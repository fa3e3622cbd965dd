// Package webmention implements both halves of the Webmention protocol:
// receiving and verifying mentions POSTed to this site, and notifying the
// pages a freshly published entity links to.
package webmention

import (
	"log/slog"

	"gorm.io/gorm"
)

// Env is the request environment for the webmention handlers.
type Env struct {
	// DB is the database connection.
	DB *gorm.DB
	// Logger is the structured logger for the request.
	Logger *slog.Logger
	// SiteHost is the host of the site's canonical base URI. Targets on any
	// other host are rejected.
	SiteHost string
	// Fetcher fetches remote documents.
	Fetcher *Fetcher
	// Notify, if set, is called after a mention from an external host has
	// been accepted. The call must not block.
	Notify func(source, target string)
}

func (e *Env) Log() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
