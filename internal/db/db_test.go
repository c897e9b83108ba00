package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/colinswan/sentinel/internal/models"
)

// setupTestDB points the package at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	DB = gdb
	if err := runMigrations(); err != nil {
		t.Fatalf("migrating: %v", err)
	}
}

// newAccountAndPrimary creates the common fixture: one account with one
// primary device.
func newAccountAndPrimary(t *testing.T) (*models.Account, *models.Device) {
	t.Helper()

	account, err := CreateAccount("Test User")
	if err != nil {
		t.Fatalf("creating account: %v", err)
	}
	device, err := CreateDevice(account.ID, "Desktop", models.DeviceKindPrimary)
	if err != nil {
		t.Fatalf("creating device: %v", err)
	}
	return account, device
}
