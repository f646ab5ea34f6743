// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/lshigami/Socrates/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory sqlite database. Pass seed=true to load the starter content.
func NewDB(t *testing.T, seed bool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	if seed {
		require.NoError(t, database.Seed(db))
	}
	return db
}

func UintPtr(v uint) *uint { return &v }
