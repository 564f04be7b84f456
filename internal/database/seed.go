package database

import (
	"log/slog"
	"time"

	"github.com/jimdaga/automarketer/internal/auth"
	"github.com/jimdaga/automarketer/internal/models"
	"gorm.io/gorm"
)

// DevUserEmail and DevUserPassword are the credentials SeedDevData creates.
const (
	DevUserEmail    = "dev@automarketer.local"
	DevUserPassword = "password"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("email = ?", DevUserEmail).First(&existingUser)
	if result.Error == nil {
		slog.Info("Seed data already exists, skipping")
		return nil
	}

	hash, err := auth.HashPassword(DevUserPassword)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			Email:        DevUserEmail,
			PasswordHash: hash,
			Organization: "Dev Leather Works",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		products := []models.Product{
			{UserID: user.ID, Name: "Leather Wallet", Description: "Hand-stitched full grain leather wallet.", Offers: "20% off this week"},
			{UserID: user.ID, Name: "Canvas Tote", Description: "Heavy canvas tote with leather handles."},
		}
		if err := tx.Create(&products).Error; err != nil {
			return err
		}

		draft := models.Draft{
			UserID:      user.ID,
			ProductID:   products[0].ID,
			Platform:    models.PlatformInstagram,
			Content:     "Carry your story in leather. 20% off this week only! #smallbusiness #handmade #leatherwallet",
			GeneratedAt: time.Now().UTC(),
		}
		if err := tx.Create(&draft).Error; err != nil {
			return err
		}

		slog.Info("Seeded dev data", "users", 1, "products", len(products), "drafts", 1)
		return nil
	})
}
