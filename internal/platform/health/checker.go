package health

import (
	"context"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/pkg/lifecycle"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

// PerformCheck 执行一次Redis可用性检查并更新全局状态。
// 从不可用恢复为可用时，丢弃可能过期的统计缓存。
func PerformCheck() {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()

	wasHealthy := database.IsRedisHealthy()
	err := database.RDB.Ping(ctx).Err()
	isHealthy := err == nil
	database.UpdateRedisStatus(isHealthy)

	if isHealthy && !wasHealthy {
		// Redis重启后缓存内容不可信，让下一次读回源重建
		stats.InvalidateCache()
	}
}

// StartRedisHealthCheck 启动一个后台Goroutine来定期执行健康检查。
// 收到停机信号后退出。
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()
		for {
			if err := handle.Sleep(checkInterval); err != nil {
				return
			}
			PerformCheck()
		}
	}()
}
