package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/smysle/sakura-cinelist-go/pkg/utils"
)

const (
	flashCookie    = "cinelist_flash"
	flashKeyPrefix = "flash:"
	flashTTL       = 10 * time.Minute
)

// FlashStore 跨重定向的一次性提示消息
//
// 消息体放在进程内缓存，Cookie 里只存随机键
type FlashStore struct{}

// NewFlashStore 创建闪存消息存储
func NewFlashStore() *FlashStore {
	return &FlashStore{}
}

// Set 写入一条闪存消息
func (f *FlashStore) Set(c *fiber.Ctx, message string) {
	key := uuid.NewString()
	utils.CacheSet(flashKeyPrefix+key, message, flashTTL)

	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    key,
		HTTPOnly: true,
		Expires:  time.Now().Add(flashTTL),
	})
}

// Pop 读取并清除闪存消息，没有时返回空字符串
func (f *FlashStore) Pop(c *fiber.Ctx) string {
	key := c.Cookies(flashCookie)
	if key == "" {
		return ""
	}

	// 读后即焚
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})

	val, ok := utils.CacheGet(flashKeyPrefix + key)
	if !ok {
		return ""
	}
	utils.CacheDelete(flashKeyPrefix + key)

	message, _ := val.(string)
	return message
}
