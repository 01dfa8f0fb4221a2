// Package config 配置管理模块
package config

import (
	"encoding/json"
	"os"
	"strconv"
)

// Config 全局配置结构
type Config struct {
	AppName   string `json:"app_name"`
	SecretKey string `json:"secret_key"`

	Server    ServerConfig    `json:"server"`
	TMDB      TMDBConfig      `json:"tmdb"`
	Database  DatabaseConfig  `json:"database"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Telegram  TelegramConfig  `json:"telegram"`
	Card      CardConfig      `json:"card"`
}

// ServerConfig Web 服务配置
type ServerConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	ViewsDir string `json:"views_dir"`
}

// TMDBConfig TMDB 配置
type TMDBConfig struct {
	APIKey       string `json:"api_key"`
	BaseURL      string `json:"base_url"`
	ImageBaseURL string `json:"image_base_url"`
	Timeout      int    `json:"timeout"` // 秒
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN            string `json:"dsn"`
	BackupDir      string `json:"backup_dir"`
	BackupMaxCount int    `json:"backup_max_count"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	BackupDB   bool   `json:"backup_db"`
	BackupTime string `json:"backup_time"`
}

// TelegramConfig Telegram 通知配置
type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token"`
	ChatID  int64  `json:"chat_id"`
}

// CardConfig 排行卡片配置
type CardConfig struct {
	Logo     string `json:"logo"`
	FontPath string `json:"font_path"`
}

// Load 加载配置文件并应用环境变量覆盖
//
// 配置文件不存在时不视为错误，默认值加环境变量即可运行
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	config.applyEnv()
	config.setDefaults()

	return &config, nil
}

// applyEnv 环境变量覆盖
func (c *Config) applyEnv() {
	if v := os.Getenv("API_KEY"); v != "" {
		c.TMDB.APIKey = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.SecretKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// setDefaults 设置默认值
func (c *Config) setDefaults() {
	if c.AppName == "" {
		c.AppName = "Sakura CineList"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ViewsDir == "" {
		c.Server.ViewsDir = "./views"
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = "https://api.themoviedb.org/3"
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = "https://image.tmdb.org/t/p/w500"
	}
	if c.TMDB.Timeout == 0 {
		c.TMDB.Timeout = 10
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "movie-collection.db"
	}
	if c.Database.BackupDir == "" {
		c.Database.BackupDir = "./backups"
	}
	if c.Database.BackupMaxCount == 0 {
		c.Database.BackupMaxCount = 7
	}
	if c.Scheduler.BackupTime == "" {
		c.Scheduler.BackupTime = "03:00"
	}
	if c.Card.Logo == "" {
		c.Card.Logo = "SAKURA"
	}
}
