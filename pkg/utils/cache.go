package utils

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例
var Cache *cache.Cache

func init() {
	// 默认过期时间 10 分钟，清理间隔 15 分钟
	Cache = cache.New(10*time.Minute, 15*time.Minute)
}

// CacheGet 获取缓存
func CacheGet(key string) (interface{}, bool) {
	return Cache.Get(key)
}

// CacheSet 设置缓存
func CacheSet(key string, value interface{}, duration time.Duration) {
	Cache.Set(key, value, duration)
}

// CacheDelete 删除缓存
func CacheDelete(key string) {
	Cache.Delete(key)
}

// CacheFlush 清空缓存
func CacheFlush() {
	Cache.Flush()
}
