package testutil

import (
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/nurpe/balance-ledger/internal/config"
	"github.com/nurpe/balance-ledger/internal/db"
	"github.com/nurpe/balance-ledger/internal/model"
)

// DB returns a fresh in-memory SQLite database, migrated and loaded with the
// demo fixture. Each call gets its own database.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	database, err := db.Open(config.DriverSQLite, dsn, zerolog.New(io.Discard))
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		tb.Fatalf("get sql db: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// serializes writers the way SQLite would anyway.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.Migrate(database); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	if err := db.Seed(database); err != nil {
		tb.Fatalf("seed test db: %v", err)
	}
	return database
}

func Profile(tb testing.TB, database *gorm.DB, id uint) model.Profile {
	tb.Helper()
	var profile model.Profile
	if err := database.Where("id = ?", id).Take(&profile).Error; err != nil {
		tb.Fatalf("load profile %d: %v", id, err)
	}
	return profile
}

func Job(tb testing.TB, database *gorm.DB, id uint) model.Job {
	tb.Helper()
	var job model.Job
	if err := database.Where("id = ?", id).Take(&job).Error; err != nil {
		tb.Fatalf("load job %d: %v", id, err)
	}
	return job
}
