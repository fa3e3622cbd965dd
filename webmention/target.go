package webmention

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tfnch/barker/models"
)

// ParseTarget classifies a target URL by its path shape. A target of the
// form .../{kind-segment}/{id} yields the kind and the positive integer id;
// anything else reports false. ParseTarget never touches the database;
// whether the row exists is a separate question.
func ParseTarget(u *url.URL) (models.Kind, uint, bool) {
	parts := strings.Split(u.Path, "/")
	if len(parts) < 2 {
		return "", 0, false
	}

	kind, ok := models.KindFromSegment(parts[len(parts)-2])
	if !ok {
		return "", 0, false
	}

	id, err := strconv.ParseUint(parts[len(parts)-1], 10, 32)
	if err != nil || id == 0 {
		return "", 0, false
	}

	return kind, uint(id), true
}
