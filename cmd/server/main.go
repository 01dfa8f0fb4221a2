// Sakura CineList
// 个人影片收藏管理 Web 应用
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/database"
	"github.com/smysle/sakura-cinelist-go/internal/database/repository"
	"github.com/smysle/sakura-cinelist-go/internal/notify"
	"github.com/smysle/sakura-cinelist-go/internal/scheduler"
	"github.com/smysle/sakura-cinelist-go/internal/service"
	"github.com/smysle/sakura-cinelist-go/internal/tmdb"
	"github.com/smysle/sakura-cinelist-go/internal/web"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
)

var (
	configPath = flag.String("config", "config.json", "配置文件路径")
	debug      = flag.Bool("debug", false, "调试模式")
)

func main() {
	flag.Parse()

	// 初始化日志
	logger.Init(*debug)
	logger.Info().Msg("🌸 Sakura CineList 启动中...")

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("加载配置失败")
	}
	if cfg.TMDB.APIKey == "" {
		logger.Warn().Msg("未配置 TMDB API Key，搜索和入库将不可用")
	}
	logger.Info().Msg("✅ 配置加载完成")

	// 初始化数据库
	db, err := database.Init(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化数据库失败")
	}
	defer database.Close(db)
	logger.Info().Msg("✅ 数据库连接成功")

	// 组装依赖
	movieRepo := repository.NewMovieRepository(db)
	tmdbClient := tmdb.NewClient(&cfg.TMDB)

	notifier, err := notify.New(&cfg.Telegram)
	if err != nil {
		// 通知是可选能力，失败不阻塞启动
		logger.Warn().Err(err).Msg("Telegram 通知初始化失败，已禁用")
		notifier = nil
	}

	collectionSvc := service.NewCollectionService(movieRepo, tmdbClient, notifier)
	backupSvc := service.NewBackupService(cfg, movieRepo)

	// 定时任务
	sched := scheduler.New(cfg, backupSvc)
	sched.Start()
	defer sched.Stop()

	// Web 服务
	server := web.New(cfg, collectionSvc, tmdbClient)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Web 服务启动失败")
		}
	}()
	defer server.Stop()

	logger.Info().Int("port", cfg.Server.Port).Msg("🚀 Sakura CineList 启动成功!")

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("正在关闭服务...")
	logger.Info().Msg("👋 再见!")
}
