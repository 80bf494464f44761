// Package databasetest provides a migrated in-memory database for tests.
package databasetest

import (
	"testing"

	"artison-api/database"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func New(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := database.Connect(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"))
	if err != nil {
		tb.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("test database pool: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate test database: %v", err)
	}
	return db
}
