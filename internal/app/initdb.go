package app

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/baliboard/baliboard/config"
	"github.com/baliboard/baliboard/internal/domain"
	"github.com/baliboard/baliboard/pkg/common"
)

func tables() []interface{} {
	return domain.Tables
}

func getDatabase(cfg config.DBConfig) *gorm.DB {
	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "sqlite":
		dsn := cfg.Name
		if dsn == "" {
			dsn = "file:baliboard.db?_foreign_keys=1"
		}
		db, err = gorm.Open(sqlite.Open(dsn), gcfg)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
			cfg.Host, cfg.User, cfg.Passwd, cfg.Name, cfg.Port, time.Local.String())
		db, err = gorm.Open(postgres.Open(dsn), gcfg)
	}
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	if cfg.MaxConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConn)
	}
	if cfg.IdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.IdleConn)
	}
	return db
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "baliboard"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default password", zap.Error(err))
		return
	}

	var account domain.Account
	err = a.gormDB.Where("username = ?", superUsername).First(&account).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.Account{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     "N/A",
			Username:  superUsername,
			Password:  string(hashed),
			Level:     "super",
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	if account.Level == "super" && account.Status == common.ENABLED {
		return
	}

	if err := a.gormDB.Model(&domain.Account{}).Where("id = ?", account.ID).Updates(map[string]interface{}{
		"level":  "super",
		"status": common.ENABLED,
	}).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default super admin account", zap.String("username", superUsername))
}

type settingSchema struct {
	Key         string
	Default     string
	Description string
}

var defaultSettings = []settingSchema{
	{"system.oprlog_retention_days", "90", "Days to keep admin operation logs"},
	{"system.page_size", "20", "Default admin list page size"},
	{"listing.max_photo_size_mb", "8", "Maximum accepted photo size"},
	{"listing.slug_retry", "1", "Client-side slug conflict retries"},
}

func (a *Application) checkSettings() {
	for sort, schema := range defaultSettings {
		category, name, found := cutSettingKey(schema.Key)
		if !found {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sort,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

func cutSettingKey(key string) (category, name string, found bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:], true
		}
	}
	return "", "", false
}
