package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/baliboard/baliboard/config"
	"github.com/baliboard/baliboard/internal/domain"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=1"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	a := NewApplication(config.DefaultAppConfig)
	a.OverrideDB(db)
	require.NoError(t, a.MigrateDB(false))
	return a
}

func TestSaveSettingsUpdatesSeededValue(t *testing.T) {
	a := newTestApplication(t)
	a.checkSettings()

	require.NoError(t, a.SaveSettings(map[string]interface{}{"system.page_size": 50}))
	assert.Equal(t, int64(50), a.GetSettingsInt64Value("system", "page_size"))
}

func TestSaveSettingsCreatesMissingKey(t *testing.T) {
	a := newTestApplication(t)

	require.NoError(t, a.SaveSettings(map[string]interface{}{"listing.featured_limit": 12}))
	assert.Equal(t, int64(12), a.GetSettingsInt64Value("listing", "featured_limit"))

	var count int64
	a.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", "listing", "featured_limit").Count(&count)
	assert.Equal(t, int64(1), count)

	// a second save updates the row rather than duplicating it
	require.NoError(t, a.SaveSettings(map[string]interface{}{"listing.featured_limit": 20}))
	a.DB().Model(&domain.SysConfig{}).
		Where("type = ? and name = ?", "listing", "featured_limit").Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(20), a.GetSettingsInt64Value("listing", "featured_limit"))
}

func TestSaveSettingsRejectsMalformedKey(t *testing.T) {
	a := newTestApplication(t)
	assert.Error(t, a.SaveSettings(map[string]interface{}{"nodotkey": 1}))
}
