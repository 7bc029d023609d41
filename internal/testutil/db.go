// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"testing"

	"alley/internal/database"
	"alley/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	models.PasswordCost = bcrypt.MinCost

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Each new connection to :memory: is a fresh database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given display name and email. The
// password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	u := &models.User{DisplayName: name, Email: email, Password: "password123"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateArtwork inserts an artwork owned by userID with the given tag names.
func CreateArtwork(t testing.TB, db *gorm.DB, userID uint, title string, tags ...string) *models.Artwork {
	t.Helper()
	a := &models.Artwork{
		Title:        title,
		Description:  title + " description",
		ThumbnailURL: "http://localhost:8080/thumbnails/" + title + ".jpg",
		ImageURL:     "http://localhost:8080/images/" + title + ".jpg",
		UserID:       userID,
	}
	for _, name := range tags {
		tag := models.Tag{Name: name}
		if err := db.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			t.Fatalf("create tag: %v", err)
		}
		a.Tags = append(a.Tags, tag)
	}
	if err := db.Omit("Tags.*").Create(a).Error; err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	return a
}
