package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMentionCreate(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Assert mention is associated to its note", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		author := MockAuthor(t, tx)
		note := MockNote(t, tx, author, "Hello world")

		mention, err := NewMentions(tx).Create(
			"https://a.example/post", "https://site.test/notes/7",
			KindNote, note.ID, "Alice", "A post", "an excerpt",
		)
		require.NoError(err)
		require.NotZero(mention.ID)
		require.NotNil(mention.NoteID)
		require.Equal(note.ID, *mention.NoteID)
		require.Nil(mention.ArticleID)
		require.Nil(mention.PictureID)
		require.Nil(mention.LikeID)
		require.Equal("mention", mention.MentionType)
		require.False(mention.InsertedAt.IsZero())
		require.False(mention.UpdatedAt.Before(mention.InsertedAt))
	})

	t.Run("Assert deafie mentions land in the article column", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		author := MockAuthor(t, tx)
		deafie := MockDeafie(t, tx, author, "First walk")

		// no article shares the deafie's id; the insert must still succeed
		var articles int64
		require.NoError(tx.Model(&Article{}).Where("id = ?", deafie.ID).Count(&articles).Error)
		require.Zero(articles)

		mention, err := NewMentions(tx).Create(
			"https://a.example/walk", "https://site.test/deafies/1",
			KindDeafie, deafie.ID, "Alice", "", "",
		)
		require.NoError(err)
		require.NotNil(mention.ArticleID)
		require.Equal(deafie.ID, *mention.ArticleID)
		require.Nil(mention.NoteID)
	})

	t.Run("Assert zero id stores an unassociated mention", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		mention, err := NewMentions(tx).Create(
			"https://a.example/lost", "https://site.test/unknown/1",
			KindArticle, 0, "unknown", "", "",
		)
		require.NoError(err)
		require.Nil(mention.ArticleID)
		require.Nil(mention.NoteID)
		require.Nil(mention.PictureID)
		require.Nil(mention.LikeID)
	})

	t.Run("Assert duplicate source and target is rejected by the index", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		author := MockAuthor(t, tx)
		note := MockNote(t, tx, author, "Hello world")

		mentions := NewMentions(tx)
		_, err := mentions.Create("https://a.example/post", "https://site.test/notes/7", KindNote, note.ID, "Alice", "", "")
		require.NoError(err)

		_, err = mentions.Create("https://a.example/post", "https://site.test/notes/7", KindNote, note.ID, "Alice", "", "")
		require.Error(err)
		require.True(IsDuplicate(err))

		var count int64
		require.NoError(tx.Model(&Mention{}).Count(&count).Error)
		require.EqualValues(1, count)
	})

	t.Run("Assert malformed urls are rejected before insert", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		_, err := NewMentions(tx).Create("ftp://a.example/post", "https://site.test/notes/7", KindNote, 0, "Alice", "", "")
		require.Error(err)

		_, err = NewMentions(tx).Create("https://a.example/post", "not a url", KindNote, 0, "Alice", "", "")
		require.Error(err)
	})

	t.Run("Assert at most one association is ever set", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		one, two := uint(1), uint(2)
		mention := &Mention{
			SourceURL: "https://a.example/post",
			TargetURL: "https://site.test/notes/7",
			Author:    "Alice",
			ArticleID: &one,
			NoteID:    &two,
		}
		require.Error(tx.Create(mention).Error)
	})
}

func TestMentionExists(t *testing.T) {
	db := setupTestDB(t)

	require := require.New(t)
	tx := db.Begin()
	defer tx.Rollback()

	mentions := NewMentions(tx)
	_, err := mentions.Create("https://a.example/post", "https://site.test/notes/7", KindNote, 0, "Alice", "", "")
	require.NoError(err)

	ok, err := mentions.Exists("https://a.example/post", "https://site.test/notes/7")
	require.NoError(err)
	require.True(ok)

	// exact string equality, no canonicalization
	ok, err = mentions.Exists("https://a.example/post/", "https://site.test/notes/7")
	require.NoError(err)
	require.False(ok)

	ok, err = mentions.Exists("https://a.example/post", "https://site.test/notes/8")
	require.NoError(err)
	require.False(ok)
}

func TestTargetExists(t *testing.T) {
	db := setupTestDB(t)

	require := require.New(t)
	tx := db.Begin()
	defer tx.Rollback()

	author := MockAuthor(t, tx)
	note := MockNote(t, tx, author, "Hello world")
	article := MockArticle(t, tx, author, "A title", "a-title")

	mentions := NewMentions(tx)

	ok, err := mentions.TargetExists(KindNote, note.ID)
	require.NoError(err)
	require.True(ok)

	ok, err = mentions.TargetExists(KindArticle, article.ID)
	require.NoError(err)
	require.True(ok)

	ok, err = mentions.TargetExists(KindNote, note.ID+100)
	require.NoError(err)
	require.False(ok)

	ok, err = mentions.TargetExists(KindNote, 0)
	require.NoError(err)
	require.False(ok)

	ok, err = mentions.TargetExists(Kind("bogus"), 1)
	require.NoError(err)
	require.False(ok)
}

func TestContentDeletionRemovesMentions(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Assert deleting a note deletes its mentions", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		author := MockAuthor(t, tx)
		note := MockNote(t, tx, author, "Hello world")

		_, err := NewMentions(tx).Create("https://a.example/post", "https://site.test/notes/7", KindNote, note.ID, "Alice", "", "")
		require.NoError(err)

		require.NoError(tx.Delete(note).Error)

		var count int64
		require.NoError(tx.Model(&Mention{}).Where("note_id = ?", note.ID).Count(&count).Error)
		require.Zero(count)
	})

	t.Run("Assert deleting a deafie deletes its article-column mentions", func(t *testing.T) {
		require := require.New(t)
		tx := db.Begin()
		defer tx.Rollback()

		author := MockAuthor(t, tx)
		deafie := MockDeafie(t, tx, author, "First walk")

		_, err := NewMentions(tx).Create("https://a.example/walk", "https://site.test/deafies/1", KindDeafie, deafie.ID, "Alice", "", "")
		require.NoError(err)

		require.NoError(tx.Delete(deafie).Error)

		var count int64
		require.NoError(tx.Model(&Mention{}).Where("article_id = ?", deafie.ID).Count(&count).Error)
		require.Zero(count)
	})
}

func TestKindSegments(t *testing.T) {
	require := require.New(t)

	for segment, want := range map[string]Kind{
		"articles": KindArticle,
		"notes":    KindNote,
		"pictures": KindPicture,
		"likes":    KindLike,
		"deafies":  KindDeafie,
	} {
		kind, ok := KindFromSegment(segment)
		require.True(ok, segment)
		require.Equal(want, kind)
		require.Equal(segment, kind.Segment())
	}

	_, ok := KindFromSegment("posts")
	require.False(ok)
}
