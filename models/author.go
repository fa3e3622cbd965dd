package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// An Author is an operator of the site. Content entities belong to a single
// Author, and the admin API authenticates against the authors table.
type Author struct {
	ID                uint      `gorm:"primarykey"`
	Name              string    `gorm:"size:64;not null"`
	Email             string    `gorm:"size:255;not null;uniqueIndex"`
	Avatar            string    `gorm:"size:255"`
	EncryptedPassword []byte    `gorm:"not null"`
	InsertedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time
}

// SetPassword hashes the given password and stores it on the author.
func (a *Author) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.EncryptedPassword = hash
	return nil
}

// CheckPassword reports whether the given password matches the stored hash.
func (a *Author) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(a.EncryptedPassword, []byte(password)) == nil
}

type Authors struct {
	db *gorm.DB
}

func NewAuthors(db *gorm.DB) *Authors {
	return &Authors{db: db}
}

// FindByEmail returns the author with the given email address.
func (a *Authors) FindByEmail(email string) (*Author, error) {
	var author Author
	if err := a.db.Where("email = ?", email).First(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// Create creates a new author with the given password.
func (a *Authors) Create(name, email, password string) (*Author, error) {
	author := &Author{
		Name:  name,
		Email: email,
	}
	if err := author.SetPassword(password); err != nil {
		return nil, err
	}
	if err := a.db.Create(author).Error; err != nil {
		return nil, err
	}
	return author, nil
}
