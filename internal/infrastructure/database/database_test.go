package database

import (
	"testing"

	"github.com/sangkips/cafepos-api/internal/config"
	"github.com/sangkips/cafepos-api/internal/domain/entity"
	"github.com/sangkips/cafepos-api/internal/domain/enum"
	"github.com/sangkips/cafepos-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigrateSeed_SQLite(t *testing.T) {
	db, err := Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, false)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	admin := config.AdminConfig{Email: "admin@example.com", Password: "secret123"}
	require.NoError(t, SeedDefaultData(db, admin, "main"))
	require.NoError(t, SeedDefaultData(db, admin, "main"))

	var users []entity.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, enum.RoleAdmin, users[0].Role)
	assert.Equal(t, "Administrator", users[0].Name)
	assert.True(t, utils.CheckPasswordHash("secret123", users[0].Password))

	x, err := SQLX(db, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", x.DriverName())
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}
