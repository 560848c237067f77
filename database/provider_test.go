package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/accountd/config"
)

func sqliteConfig() config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			DSN:         ":memory:",
			AutoMigrate: true,
		},
	}
}

type testModel struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestProvideDatabase_Sqlite(t *testing.T) {
	db, err := ProvideDatabase(sqliteConfig(), WithModels(&testModel{}))

	require.NoError(t, err)
	require.NotNil(t, db)
	assert.True(t, db.Migrator().HasTable(&testModel{}))
}

func TestProvideDatabase_NoMigrationWithoutModels(t *testing.T) {
	db, err := ProvideDatabase(sqliteConfig(), nil)

	require.NoError(t, err)
	require.NotNil(t, db)
	assert.False(t, db.Migrator().HasTable(&testModel{}))
}

func TestProvideDatabase_UnsupportedDriver(t *testing.T) {
	cfg := sqliteConfig()
	cfg.Database.Driver = "oracle"

	db, err := ProvideDatabase(cfg, nil)

	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}
