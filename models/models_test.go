package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockAuthor creates a new author in the database.
func MockAuthor(t *testing.T, tx *gorm.DB) *Author {
	t.Helper()
	require := require.New(t)

	author := &Author{
		Name: "Hazel",
	}
	// unique per call so helpers can run inside the same transaction
	author.Email = fmt.Sprintf("hazel+%p@example.com", author)
	require.NoError(author.SetPassword("woofwoof"))
	require.NoError(tx.Create(author).Error)
	return author
}

// MockNote creates a new note in the database.
func MockNote(t *testing.T, tx *gorm.DB, author *Author, title string, opts ...func(*Note)) *Note {
	t.Helper()
	require := require.New(t)

	note := &Note{
		AuthorID: author.ID,
		Title:    title,
		Body:     "a short note",
		Lang:     "en",
	}
	for _, opt := range opts {
		opt(note)
	}
	require.NoError(tx.Create(note).Error)
	return note
}

// MockArticle creates a new article in the database.
func MockArticle(t *testing.T, tx *gorm.DB, author *Author, title, slug string) *Article {
	t.Helper()
	require := require.New(t)

	article := &Article{
		AuthorID: author.ID,
		Title:    title,
		Slug:     slug,
		Body:     "a longer article",
		Lang:     "en",
	}
	require.NoError(tx.Create(article).Error)
	return article
}

// MockDeafie creates a new deafie journal entry in the database.
func MockDeafie(t *testing.T, tx *gorm.DB, author *Author, title string) *Deafie {
	t.Helper()
	require := require.New(t)

	deafie := &Deafie{
		AuthorID: author.ID,
		Title:    title,
		Body:     "training went well today",
		Lang:     "en",
	}
	require.NoError(tx.Create(deafie).Error)
	return deafie
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	require := require.New(t)
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger: logger.Default.LogMode(func() logger.LogLevel {
			return logger.Warn
		}()),
	})
	require.NoError(err)

	err = db.AutoMigrate(AllTables()...)
	require.NoError(err)

	// enable foreign key constraints
	err = db.Exec("PRAGMA foreign_keys = ON").Error
	require.NoError(err)

	return db
}
