package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/mforum/config"
	"github.com/cppla/mforum/models"
)

// newTestDB opens a private in-memory sqlite database with the forum schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDatabase(config.AppConfig{
		DBDriver:   "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func mustCreateUser(t *testing.T, users UserRepository, name string) *models.User {
	t.Helper()
	u, err := users.Create(context.Background(), name, name+"@x.com", "hash")
	require.NoError(t, err)
	return u
}
