// Package database 数据库初始化
package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/database/models"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Init 初始化数据库连接并迁移表结构
//
// DSN 为 mysql:// 地址或 @tcp( 形式时使用 MySQL 驱动，
// 其余情况按 SQLite 文件路径处理
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var dialector gorm.Dialector
	if isMySQLDSN(cfg.DSN) {
		dsn, err := toMySQLDSN(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("解析 MySQL DSN 失败: %w", err)
		}
		dialector = mysql.Open(dsn)
	} else {
		dialector = sqlite.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接池失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.Movie{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info().Str("dsn", cfg.DSN).Msg("数据库连接成功")
	return db, nil
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isMySQLDSN 判断 DSN 是否指向 MySQL
func isMySQLDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mysql://") || strings.Contains(dsn, "@tcp(")
}

// toMySQLDSN 把 mysql:// 地址转换成驱动格式
func toMySQLDSN(dsn string) (string, error) {
	if strings.Contains(dsn, "@tcp(") {
		return dsn, nil
	}

	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	password, _ := u.User.Password()
	host := u.Host
	if !strings.Contains(host, ":") {
		host += ":3306"
	}
	name := strings.TrimPrefix(u.Path, "/")

	return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, name), nil
}
