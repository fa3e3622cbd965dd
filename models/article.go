package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// An Article is a long-form post. Articles are the canonical targets of most
// inbound webmentions.
type Article struct {
	ID             uint   `gorm:"primarykey"`
	AuthorID       uint   `gorm:"not null"`
	Author         *Author `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Title          string `gorm:"size:255;not null"`
	Slug           string `gorm:"size:255;not null;uniqueIndex"`
	Excerpt        string `gorm:"type:text"`
	Body           string `gorm:"type:text"`
	Lang           string `gorm:"size:10;not null;default:en"`
	ContentWarning string `gorm:"size:255"`
	Published      bool   `gorm:"not null;default:false"`
	Posse          bool   `gorm:"not null;default:false"`
	InsertedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}

// URL returns the canonical URL of the article under the given base URI.
func (a *Article) URL(base string) string {
	return fmt.Sprintf("%s/articles/%d", strings.TrimSuffix(base, "/"), a.ID)
}

// BeforeDelete removes the article's mentions in the same transaction.
func (a *Article) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("article_id = ?", a.ID).Delete(&Mention{}).Error
}
