// Package scheduler 定时任务调度
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/service"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron   *gocron.Scheduler
	cfg    *config.Config
	backup *service.BackupService
}

// New 创建调度器
func New(cfg *config.Config, backup *service.BackupService) *Scheduler {
	loc, _ := time.LoadLocation("Asia/Shanghai")
	s := gocron.NewScheduler(loc)
	s.SetMaxConcurrentJobs(2, gocron.RescheduleMode)

	return &Scheduler{
		cron:   s,
		cfg:    cfg,
		backup: backup,
	}
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.registerJobs()
	s.cron.StartAsync()
	logger.Info().Msg("定时任务调度器已启动")
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info().Msg("定时任务调度器已停止")
}

// registerJobs 注册所有定时任务
func (s *Scheduler) registerJobs() {
	cfg := s.cfg.Scheduler

	// 数据库备份
	if cfg.BackupDB {
		s.cron.Every(1).Day().At(cfg.BackupTime).Do(s.runBackup)
		logger.Info().Str("at", cfg.BackupTime).Msg("已注册: 数据库备份任务")
	}
}

// runBackup 执行备份并清理旧文件
func (s *Scheduler) runBackup() {
	if _, err := s.backup.Backup(true); err != nil {
		logger.Error().Err(err).Msg("定时备份失败")
		return
	}
	if err := s.backup.CleanupOldBackups(); err != nil {
		logger.Warn().Err(err).Msg("清理旧备份失败")
	}
}
