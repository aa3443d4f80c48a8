package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kendall-kelly/complaint-desk-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// RequireTestEnvironment ensures that tests are running in the test environment.
// This prevents accidental execution of tests against production or development databases.
// It will fail the test immediately if GO_ENV is not set to "test".
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q. Set GO_ENV=test before running tests.", env)
	}
}

var dbCounter int64

// NewTestDB opens a private in-memory SQLite database with every table migrated.
// The pool is pinned to one connection so the shared-cache database lives as long as the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbCounter, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// SeedUser inserts a user with the given id and role
func SeedUser(t *testing.T, db *gorm.DB, userID, role string) *models.User {
	t.Helper()

	user := &models.User{
		UserID:   userID,
		FullName: "User " + userID,
		Email:    userID + "@example.com",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to seed user %s: %v", userID, err)
	}
	return user
}

// SeedComplaint inserts a Pending complaint owned by userID
func SeedComplaint(t *testing.T, db *gorm.DB, userID, category string) *models.Complaint {
	t.Helper()

	complaint := &models.Complaint{
		UserID:      userID,
		Category:    category,
		Description: "Seeded " + category + " complaint",
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
	}
	if err := db.Create(complaint).Error; err != nil {
		t.Fatalf("Failed to seed complaint: %v", err)
	}
	return complaint
}
