package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/pkg/common"
)

func (a *Application) settingValue(category, key string) string {
	var cfg domain.SysConfig
	if err := a.gormDB.Where("type = ? and name = ?", category, key).First(&cfg).Error; err != nil {
		return ""
	}
	return cfg.Value
}

// GetSettingsStringValue retrieves a string configuration value
func (a *Application) GetSettingsStringValue(category, key string) string {
	return a.settingValue(category, key)
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return cast.ToInt64(a.settingValue(category, key))
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return cast.ToBool(a.settingValue(category, key))
}

// SaveSettings upserts configuration settings by "category.key" name,
// creating rows for keys not seeded yet.
func (a *Application) SaveSettings(settings map[string]interface{}) error {
	for key, value := range settings {
		category, name, found := cutSettingKey(key)
		if !found {
			return errors.Errorf("invalid setting key %q, want category.key", key)
		}
		result := a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Update("value", cast.ToString(value))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if err := a.gormDB.Create(&domain.SysConfig{
				ID:    common.UUIDint64(),
				Type:  category,
				Name:  name,
				Value: cast.ToString(value),
			}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
