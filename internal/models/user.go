package models

import (
	"gorm.io/gorm"
)

// User is an account of the reference backend. Email identifies all data the
// user owns.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Organization string `gorm:"not null;default:''"`

	// Associations
	Products []Product `gorm:"constraint:OnDelete:CASCADE;"`
	Drafts   []Draft   `gorm:"constraint:OnDelete:CASCADE;"`
}
