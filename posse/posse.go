// Package posse syndicates published content to a Mastodon compatible
// server: publish on your own site, syndicate elsewhere. The site is the
// canonical copy; everything in this package is best effort.
package posse

// Visibility is the audience of a syndicated status.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
	VisibilityDirect   Visibility = "direct"
)

// ParseVisibility maps a configuration string onto a Visibility. Unknown
// strings fall back to direct, the least public audience.
func ParseVisibility(s string) Visibility {
	switch Visibility(s) {
	case VisibilityPublic, VisibilityUnlisted, VisibilityPrivate, VisibilityDirect:
		return Visibility(s)
	default:
		return VisibilityDirect
	}
}
