package service

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/database/models"
	"github.com/smysle/sakura-cinelist-go/internal/database/repository"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
	"github.com/smysle/sakura-cinelist-go/pkg/utils"
)

// BackupService 备份服务
type BackupService struct {
	cfg       *config.Config
	repo      *repository.MovieRepository
	backupDir string
}

// BackupData 备份数据结构
type BackupData struct {
	Version   string         `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	Movies    []models.Movie `json:"movies"`
}

// BackupResult 备份结果
type BackupResult struct {
	Filename   string
	FilePath   string
	Size       int64
	Duration   time.Duration
	Records    int
	Compressed bool
}

// NewBackupService 创建备份服务
func NewBackupService(cfg *config.Config, repo *repository.MovieRepository) *BackupService {
	backupDir := cfg.Database.BackupDir
	if backupDir == "" {
		backupDir = "./backups"
	}

	// 确保备份目录存在
	os.MkdirAll(backupDir, 0755)

	return &BackupService{
		cfg:       cfg,
		repo:      repo,
		backupDir: backupDir,
	}
}

// Backup 执行备份
func (s *BackupService) Backup(compress bool) (*BackupResult, error) {
	startTime := time.Now()

	movies, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("备份影片记录失败: %w", err)
	}

	data := BackupData{
		Version:   "1.0",
		CreatedAt: time.Now(),
		Movies:    movies,
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化备份数据失败: %w", err)
	}

	filename := fmt.Sprintf("cinelist_backup_%s.json", utils.FormatTimeCST(startTime, "20060102_150405"))
	if compress {
		filename += ".gz"
	}
	filePath := filepath.Join(s.backupDir, filename)

	if err := s.writeBackup(filePath, raw, compress); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, err
	}

	result := &BackupResult{
		Filename:   filename,
		FilePath:   filePath,
		Size:       info.Size(),
		Duration:   time.Since(startTime),
		Records:    len(movies),
		Compressed: compress,
	}

	logger.Info().
		Str("file", filename).
		Int("records", result.Records).
		Int64("size", result.Size).
		Msg("数据库备份完成")

	return result, nil
}

// writeBackup 写备份文件
func (s *BackupService) writeBackup(filePath string, raw []byte, compress bool) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("创建备份文件失败: %w", err)
	}
	defer file.Close()

	if !compress {
		_, err = file.Write(raw)
		return err
	}

	gz := gzip.NewWriter(file)
	if _, err := gz.Write(raw); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// CleanupOldBackups 清理超出保留数量的旧备份
func (s *BackupService) CleanupOldBackups() error {
	maxCount := s.cfg.Database.BackupMaxCount
	if maxCount <= 0 {
		maxCount = 7
	}

	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return err
	}

	var backups []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), "cinelist_backup_") {
			backups = append(backups, entry.Name())
		}
	}

	if len(backups) <= maxCount {
		return nil
	}

	// 文件名带时间戳，字典序即时间序
	sort.Strings(backups)
	for _, name := range backups[:len(backups)-maxCount] {
		path := filepath.Join(s.backupDir, name)
		if err := os.Remove(path); err != nil {
			logger.Warn().Err(err).Str("file", name).Msg("删除旧备份失败")
			continue
		}
		logger.Debug().Str("file", name).Msg("已删除旧备份")
	}

	return nil
}
