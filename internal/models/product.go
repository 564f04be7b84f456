package models

import (
	"gorm.io/gorm"
)

// Product is something the owner sells and wants copy written about.
type Product struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"`
	User        User   `gorm:"constraint:OnDelete:CASCADE;"`
	Name        string `gorm:"not null"`
	Description string `gorm:"type:text;not null;default:''"`
	Offers      string `gorm:"type:text;not null;default:''"`

	Drafts []Draft `gorm:"constraint:OnDelete:CASCADE;"`
}
