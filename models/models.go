// Package models contains the gorm models for the site: the content entities
// (articles, notes, pictures, likes and the deafie journal), their authors,
// and the webmentions received for them.
package models

import (
	"fmt"
	"net/url"
)

// AllTables returns a slice of all the model types that gorm should migrate.
func AllTables() []any {
	return []any{
		&Author{},
		&Article{},
		&Note{},
		&Picture{},
		&Like{},
		&Deafie{},
		&Mention{},
	}
}

// Kind enumerates the content entities a mention can target.
type Kind string

const (
	KindArticle Kind = "article"
	KindNote    Kind = "note"
	KindPicture Kind = "picture"
	KindLike    Kind = "like"
	KindDeafie  Kind = "deafie"
)

// kindSegments maps the URL path segment of a content entity to its Kind.
var kindSegments = map[string]Kind{
	"articles": KindArticle,
	"notes":    KindNote,
	"pictures": KindPicture,
	"likes":    KindLike,
	"deafies":  KindDeafie,
}

// KindFromSegment returns the Kind routed by the given URL path segment.
func KindFromSegment(segment string) (Kind, bool) {
	k, ok := kindSegments[segment]
	return k, ok
}

// Segment returns the URL path segment that routes to entities of this kind.
func (k Kind) Segment() string {
	for seg, kind := range kindSegments {
		if kind == k {
			return seg
		}
	}
	return string(k) + "s"
}

// validateURL checks that s is a well formed absolute http or https URL.
func validateURL(field, s string) error {
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s: not an absolute http(s) url: %q", field, s)
	}
	return nil
}
