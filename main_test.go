package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tfnch/barker/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// A second insert of the same (source, target) pair must surface as a
// duplicate through a database opened with the command context's config,
// not just the config the model tests use.
func TestContextRecognisesDuplicateMentions(t *testing.T) {
	require := require.New(t)

	ctx := newContext(false, "unused")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &ctx.Config)
	require.NoError(err)
	require.NoError(db.AutoMigrate(models.AllTables()...))

	mentions := models.NewMentions(db)
	_, err = mentions.Create("https://a.example/post", "https://site.test/notes/7", models.KindArticle, 0, "Alice", "", "")
	require.NoError(err)

	_, err = mentions.Create("https://a.example/post", "https://site.test/notes/7", models.KindArticle, 0, "Alice", "", "")
	require.Error(err)
	require.True(models.IsDuplicate(err))
}
