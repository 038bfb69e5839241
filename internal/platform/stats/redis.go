package stats

import (
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
)

// readCachedBasicStats 尝试从Redis读取基础统计快照的JSON。
// Redis不健康或未命中时返回ok=false，调用方回源数据库。
func readCachedBasicStats() (string, bool) {
	if !database.IsRedisHealthy() {
		return "", false
	}
	payload, err := database.RDB.Get(database.Ctx, BasicStatsCacheKey).Result()
	if err != nil {
		return "", false
	}
	return payload, true
}

// writeCachedBasicStats 将序列化好的快照写入Redis，带TTL。
// 写入失败只是丢失一次缓存机会，不影响请求本身。
func writeCachedBasicStats(payload string, ttl time.Duration) {
	if !database.IsRedisHealthy() {
		return
	}
	_ = database.RDB.Set(database.Ctx, BasicStatsCacheKey, payload, ttl).Err()
}

// InvalidateCache 丢弃缓存的统计快照。
// 任何改变计数的写路径(自增、全量重算)之后都会调用它。
func InvalidateCache() {
	if database.RDB == nil || !database.IsRedisHealthy() {
		return
	}
	_ = database.RDB.Del(database.Ctx, BasicStatsCacheKey).Err()
}
