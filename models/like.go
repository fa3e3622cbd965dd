package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// A Like records appreciation of a page elsewhere on the web. Likes are
// published but never syndicated.
type Like struct {
	ID         uint   `gorm:"primarykey"`
	AuthorID   uint   `gorm:"not null"`
	Author     *Author `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	InReplyTo  string `gorm:"size:255;not null"`
	Posse      bool   `gorm:"not null;default:false"`
	InsertedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time
}

// URL returns the canonical URL of the like under the given base URI.
func (l *Like) URL(base string) string {
	return fmt.Sprintf("%s/likes/%d", strings.TrimSuffix(base, "/"), l.ID)
}

// BeforeDelete removes the like's mentions in the same transaction.
func (l *Like) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("like_id = ?", l.ID).Delete(&Mention{}).Error
}
