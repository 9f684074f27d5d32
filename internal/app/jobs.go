package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/baliboard/baliboard/internal/domain"
)

// initJob starts the maintenance scheduler. Offer CRUD itself runs no
// background work, the only job is audit-log retention.
func (a *Application) initJob() {
	a.sched = cron.New()
	_, err := a.sched.AddFunc("@daily", a.pruneOprLogs)
	if err != nil {
		zap.L().Error("failed to register oprlog prune job", zap.Error(err))
		return
	}
	a.sched.Start()
}

// pruneOprLogs removes operation log rows older than the configured
// retention window.
func (a *Application) pruneOprLogs() {
	days := a.GetSettingsInt64Value("system", "oprlog_retention_days")
	if days <= 0 {
		days = 90
	}
	cutoff := time.Now().AddDate(0, 0, -int(days))
	result := a.gormDB.Where("opt_time < ?", cutoff).Delete(&domain.SysOprLog{})
	if result.Error != nil {
		zap.L().Error("failed to prune operation logs", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		zap.L().Info("pruned operation logs",
			zap.Int64("rows", result.RowsAffected),
			zap.Time("cutoff", cutoff))
	}
}
