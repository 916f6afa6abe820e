package services

import (
	"testing"

	"github.com/coalhq/coal-server/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return &user
}

func seedStudio(t *testing.T, db *gorm.DB, name string) *models.Studio {
	t.Helper()
	studio := models.Studio{Name: name}
	if err := db.Create(&studio).Error; err != nil {
		t.Fatalf("failed to seed studio %s: %v", name, err)
	}
	return &studio
}

func seedGame(t *testing.T, db *gorm.DB, title string, studioID *uint, tags []string) *models.Game {
	t.Helper()
	game := models.Game{Title: title, StudioID: studioID}
	game.SetTagList(tags)
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("failed to seed game %s: %v", title, err)
	}
	return &game
}
