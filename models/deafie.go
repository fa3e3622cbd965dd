package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// A Deafie is an entry in the deaf-dog journal. Deafies render like articles
// and share their mention column; see Mentions.Create.
type Deafie struct {
	ID             uint   `gorm:"primarykey"`
	AuthorID       uint   `gorm:"not null"`
	Author         *Author `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Title          string `gorm:"size:255;not null"`
	Body           string `gorm:"type:text"`
	Image          string `gorm:"size:255"`
	Lang           string `gorm:"size:10;not null;default:en"`
	ContentWarning string `gorm:"size:255"`
	Published      bool   `gorm:"not null;default:false"`
	Posse          bool   `gorm:"not null;default:false"`
	InsertedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}

// URL returns the canonical URL of the deafie under the given base URI.
func (d *Deafie) URL(base string) string {
	return fmt.Sprintf("%s/deafies/%d", strings.TrimSuffix(base, "/"), d.ID)
}

// BeforeDelete removes the deafie's mentions in the same transaction.
// Deafie mentions are stored against the article column, so that is the
// column matched here.
func (d *Deafie) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("article_id = ?", d.ID).Delete(&Mention{}).Error
}
