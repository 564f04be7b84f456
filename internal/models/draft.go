package models

import (
	"time"

	"gorm.io/gorm"
)

// Draft is one generated piece of copy. Drafts are never edited; they go
// away only when their product is deleted.
type Draft struct {
	gorm.Model
	UserID      uint      `gorm:"not null;index"`
	ProductID   uint      `gorm:"not null;index"`
	Product     Product   `gorm:"constraint:OnDelete:CASCADE;"`
	Platform    Platform  `gorm:"type:varchar(32);not null"`
	Content     string    `gorm:"type:text;not null"`
	GeneratedAt time.Time `gorm:"not null"`
}
