package webmention

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfnch/barker/models"
)

func TestParseTarget(t *testing.T) {
	require := require.New(t)

	parse := func(s string) (models.Kind, uint, bool) {
		u, err := url.Parse(s)
		require.NoError(err)
		return ParseTarget(u)
	}

	t.Run("Assert well formed targets resolve", func(t *testing.T) {
		kind, id, ok := parse("https://site.test/notes/42")
		require.True(ok)
		require.Equal(models.KindNote, kind)
		require.EqualValues(42, id)

		for segment, want := range map[string]models.Kind{
			"articles": models.KindArticle,
			"pictures": models.KindPicture,
			"likes":    models.KindLike,
			"deafies":  models.KindDeafie,
		} {
			kind, id, ok := parse("https://site.test/" + segment + "/7")
			require.True(ok, segment)
			require.Equal(want, kind)
			require.EqualValues(7, id)
		}
	})

	t.Run("Assert malformed targets do not resolve", func(t *testing.T) {
		for _, s := range []string{
			"https://site.test/notes/42/",
			"https://site.test/notes/x",
			"https://site.test/notes",
			"https://site.test/notes/0",
			"https://site.test/notes/-1",
			"https://site.test/posts/42",
			"https://site.test/",
			"https://site.test",
		} {
			_, _, ok := parse(s)
			require.False(ok, s)
		}
	})

	t.Run("Assert only the trailing two segments matter", func(t *testing.T) {
		kind, id, ok := parse("https://site.test/blog/archive/notes/42")
		require.True(ok)
		require.Equal(models.KindNote, kind)
		require.EqualValues(42, id)
	})
}
