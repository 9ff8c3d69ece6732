// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"fmt"
	"testing"

	"sharehub/internal/database"
	"sharehub/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens an isolated in-memory database with the full schema applied.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg := database.GormConfig()
	cfg.Logger = database.NewGormLogger(logger.Silent)

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Prepare(db); err != nil {
		t.Fatalf("prepare sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// CreateProfile inserts a profile with a random id and the given username.
func CreateProfile(t testing.TB, db *gorm.DB, username string, admin bool) *models.Profile {
	t.Helper()
	p := &models.Profile{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: username,
		IsAdmin:     admin,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

// CreatePost inserts a manual post owned by userID.
func CreatePost(t testing.TB, db *gorm.DB, userID, title, url string) *models.Post {
	t.Helper()
	p := &models.Post{
		Title:  title,
		URL:    url,
		UserID: userID,
		Source: models.SourceManual,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	return p
}

// CreateComment inserts a comment, optionally as a reply to parentID.
func CreateComment(t testing.TB, db *gorm.DB, postID uint, userID, content string, parentID *uint) *models.Comment {
	t.Helper()
	c := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	}
	c.SetReactionMap(models.ReactionMap{})
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}
