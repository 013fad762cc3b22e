package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cppla/mforum/config"
	"github.com/cppla/mforum/repository"
	"github.com/cppla/mforum/utils"
)

func newTestUsers(t *testing.T) repository.UserRepository {
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
	return repository.NewUserRepository(db)
}

func newTestAuth(t *testing.T) (*AuthService, repository.UserRepository) {
	users := newTestUsers(t)
	return NewAuthService(users, utils.NewPasswordHasher(4), utils.NewTokenManager("test-secret", 24*time.Hour)), users
}
