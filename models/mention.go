package models

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// A Mention is a webmention received for one of the site's content entities.
// A Mention references at most one content row, and (SourceURL, TargetURL)
// is unique; the unique index is the serialization point for concurrent
// receipts of the same mention. Rows are never mutated after creation.
type Mention struct {
	ID           uint   `gorm:"primarykey"`
	SourceURL    string `gorm:"size:255;not null;uniqueIndex:idx_mentions_source_target"`
	TargetURL    string `gorm:"size:255;not null;uniqueIndex:idx_mentions_source_target"`
	Title        string `gorm:"size:255"`
	Excerpt      string `gorm:"size:255"`
	Author       string `gorm:"size:255;not null"`
	AuthorURL    string `gorm:"size:255"`
	AuthorAvatar string `gorm:"size:255"`
	// TODO: derive reply/like/repost from the source document instead of
	// storing the placeholder.
	MentionType string `gorm:"size:32;not null"`
	// Plain indexed columns, deliberately without declared associations:
	// deafie mentions reuse article_id, so an enforced foreign key would
	// reject them whenever no article row shares the deafie's id. Cleanup
	// on content deletion happens in the content BeforeDelete hooks.
	ArticleID  *uint     `gorm:"index"`
	NoteID     *uint     `gorm:"index"`
	PictureID  *uint     `gorm:"index"`
	LikeID     *uint     `gorm:"index"`
	InsertedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time
}

// placeholder until the mention taxonomy is derived from the source.
const mentionTypePlaceholder = "mention"

// BeforeSave validates the mention's invariants.
func (m *Mention) BeforeSave(tx *gorm.DB) error {
	if err := validateURL("source_url", m.SourceURL); err != nil {
		return err
	}
	if err := validateURL("target_url", m.TargetURL); err != nil {
		return err
	}
	refs := 0
	for _, id := range []*uint{m.ArticleID, m.NoteID, m.PictureID, m.LikeID} {
		if id != nil {
			refs++
		}
	}
	if refs > 1 {
		return fmt.Errorf("mention %s -> %s references %d content rows", m.SourceURL, m.TargetURL, refs)
	}
	return nil
}

type Mentions struct {
	db *gorm.DB
}

func NewMentions(db *gorm.DB) *Mentions {
	return &Mentions{db: db}
}

// Exists reports whether a mention with exactly the given source and target
// URLs has already been stored.
func (m *Mentions) Exists(source, target string) (bool, error) {
	var count int64
	err := m.db.Model(&Mention{}).
		Where("source_url = ? AND target_url = ?", source, target).
		Count(&count).Error
	return count > 0, err
}

// TargetExists reports whether a content row of the given kind and id exists.
func (m *Mentions) TargetExists(kind Kind, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var model any
	switch kind {
	case KindArticle:
		model = &Article{}
	case KindNote:
		model = &Note{}
	case KindPicture:
		model = &Picture{}
	case KindLike:
		model = &Like{}
	case KindDeafie:
		model = &Deafie{}
	default:
		return false, nil
	}
	var count int64
	err := m.db.Model(model).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create stores a new mention associated with the content row named by kind
// and id. A zero id stores the mention without an association. Deafie
// mentions are stored against the article column; the deafies table has no
// column of its own in the current schema.
func (m *Mentions) Create(source, target string, kind Kind, id uint, author, title, excerpt string) (*Mention, error) {
	mention := &Mention{
		SourceURL:   source,
		TargetURL:   target,
		Title:       title,
		Excerpt:     excerpt,
		Author:      author,
		MentionType: mentionTypePlaceholder,
	}
	if id != 0 {
		switch kind {
		case KindArticle, KindDeafie:
			mention.ArticleID = &id
		case KindNote:
			mention.NoteID = &id
		case KindPicture:
			mention.PictureID = &id
		case KindLike:
			mention.LikeID = &id
		default:
			return nil, fmt.Errorf("unknown mention target kind %q", kind)
		}
	}
	err := m.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(mention).Error
	})
	if err != nil {
		return nil, err
	}
	return mention, nil
}

// IsDuplicate reports whether err is the unique index rejecting a second
// insert of the same (source, target) pair.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
