package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// A Note is a short-form post.
type Note struct {
	ID             uint   `gorm:"primarykey"`
	AuthorID       uint   `gorm:"not null"`
	Author         *Author `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Title          string `gorm:"size:255;not null"`
	Body           string `gorm:"type:text"`
	Lang           string `gorm:"size:10;not null;default:en"`
	ContentWarning string `gorm:"size:255"`
	Published      bool   `gorm:"not null;default:false"`
	Posse          bool   `gorm:"not null;default:false"`
	InsertedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}

// URL returns the canonical URL of the note under the given base URI.
func (n *Note) URL(base string) string {
	return fmt.Sprintf("%s/notes/%d", strings.TrimSuffix(base, "/"), n.ID)
}

// BeforeDelete removes the note's mentions in the same transaction.
func (n *Note) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("note_id = ?", n.ID).Delete(&Mention{}).Error
}
