package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// A Picture is a photo post. Image is the filename of the stored original
// under the image base path; resized variants are derived next to it.
type Picture struct {
	ID             uint   `gorm:"primarykey"`
	AuthorID       uint   `gorm:"not null"`
	Author         *Author `gorm:"constraint:OnDelete:CASCADE;<-:false;"`
	Title          string `gorm:"size:255;not null"`
	Body           string `gorm:"type:text"`
	Image          string `gorm:"size:255;not null"`
	ContentType    string `gorm:"size:64;not null"`
	Lang           string `gorm:"size:10;not null;default:en"`
	ContentWarning string `gorm:"size:255"`
	Published      bool   `gorm:"not null;default:false"`
	Posse          bool   `gorm:"not null;default:false"`
	InsertedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time
}

// URL returns the canonical URL of the picture under the given base URI.
func (p *Picture) URL(base string) string {
	return fmt.Sprintf("%s/pictures/%d", strings.TrimSuffix(base, "/"), p.ID)
}

// BeforeDelete removes the picture's mentions in the same transaction.
func (p *Picture) BeforeDelete(tx *gorm.DB) error {
	return tx.Where("picture_id = ?", p.ID).Delete(&Mention{}).Error
}
