// Package web Web 服务
package web

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/service"
	"github.com/smysle/sakura-cinelist-go/internal/tmdb"
	pkglogger "github.com/smysle/sakura-cinelist-go/pkg/logger"
	"github.com/smysle/sakura-cinelist-go/pkg/utils"
)

// Server Web 服务器
type Server struct {
	app       *fiber.App
	cfg       *config.Config
	svc       *service.CollectionService
	tmdb      *tmdb.Client
	flash     *FlashStore
	startTime time.Time
}

// New 创建 Web 服务器
func New(cfg *config.Config, svc *service.CollectionService, tmdbClient *tmdb.Client) *Server {
	engine := html.New(cfg.Server.ViewsDir, ".html")
	engine.AddFunc("truncate", func(s string, max int) string {
		return utils.TruncateString(s, max)
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: true,
		Views:                 engine,
		ViewsLayout:           "layouts/main",
		ErrorHandler:          errorHandler,
	})

	// 中间件
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: cookieKey(cfg.SecretKey),
	}))

	server := &Server{
		app:       app,
		cfg:       cfg,
		svc:       svc,
		tmdb:      tmdbClient,
		flash:     NewFlashStore(),
		startTime: time.Now(),
	}

	server.registerRoutes()

	return server
}

// registerRoutes 注册路由
func (s *Server) registerRoutes() {
	// 健康检查
	s.app.Get("/health", s.healthCheck)

	// 收藏列表
	s.app.Get("/", s.home)

	// 评分与评论
	s.app.Get("/edit", s.editPage)
	s.app.Post("/edit", s.editSubmit)

	// 删除
	s.app.Get("/delete", s.deleteMovie)

	// 搜索与入库
	s.app.Get("/add", s.addPage)
	s.app.Post("/add", s.addSearch)
	s.app.Get("/select", s.selectCandidate)

	// 排行卡片
	s.app.Get("/card", s.rankCard)
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	pkglogger.Info().Str("addr", addr).Msg("Web 服务启动中...")
	return s.app.Listen(addr)
}

// Stop 停止服务器
func (s *Server) Stop() error {
	return s.app.Shutdown()
}

// cookieKey 由 SECRET_KEY 派生 32 字节的 Cookie 加密密钥
func cookieKey(secret string) string {
	if secret == "" {
		secret = "sakura-cinelist-dev-secret"
	}
	sum := sha256.Sum256([]byte(secret))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// errorHandler 统一错误翻译
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "服务器内部错误"

	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, service.ErrNotFound):
		code = fiber.StatusNotFound
		message = "影片不存在"
	case errors.Is(err, service.ErrInvalidRating):
		code = fiber.StatusBadRequest
		message = "评分必须是数字"
	case errors.Is(err, tmdb.ErrUpstream):
		// 上游故障不做兜底，明确暴露给用户
		code = fiber.StatusBadGateway
		message = "TMDB 服务暂时不可用"
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		pkglogger.Error().Err(err).Str("path", c.Path()).Msg("请求处理失败")
	} else {
		pkglogger.Warn().Err(err).Str("path", c.Path()).Int("status", code).Msg("请求被拒绝")
	}

	return c.Status(code).Render("error", fiber.Map{
		"Title":   "出错了",
		"Code":    code,
		"Message": message,
	})
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
}

// healthCheck 健康检查
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}
