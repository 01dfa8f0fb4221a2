// Package notify Telegram 通知模块
package notify

import (
	"fmt"
	"time"

	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/database/models"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
	tele "gopkg.in/telebot.v3"
)

// Notifier 收藏变更通知器
//
// 未启用时为 nil，所有方法对 nil 接收者安全
type Notifier struct {
	bot  *tele.Bot
	chat tele.ChatID
}

// New 创建通知器，未启用时返回 nil
func New(cfg *config.TelegramConfig) (*Notifier, error) {
	if !cfg.Enabled || cfg.Token == "" || cfg.ChatID == 0 {
		return nil, nil
	}

	bot, err := tele.NewBot(tele.Settings{
		Token: cfg.Token,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化 Telegram Bot 失败: %w", err)
	}

	logger.Info().Str("bot", bot.Me.Username).Msg("Telegram 通知已启用")
	return &Notifier{bot: bot, chat: tele.ChatID(cfg.ChatID)}, nil
}

// MovieAdded 影片入库通知
func (n *Notifier) MovieAdded(movie *models.Movie) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("🎬 新收藏影片\n**%s** (%d)\n%s",
		movie.Title, movie.Year, movie.ImgURL)
	n.send(text)
}

// MovieRated 影片评分通知
func (n *Notifier) MovieRated(movie *models.Movie) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("⭐ 影片已评分\n**%s** (%d) — %s",
		movie.Title, movie.Year, movie.RatingDisplay())
	n.send(text)
}

// send 发送消息，失败仅记日志
func (n *Notifier) send(text string) {
	_, err := n.bot.Send(n.chat, text, &tele.SendOptions{
		ParseMode: tele.ModeMarkdown,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Telegram 通知发送失败")
		return
	}
	logger.Debug().Time("at", time.Now()).Msg("Telegram 通知已发送")
}
