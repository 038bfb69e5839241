package stats

import (
	"fmt"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
)

// PrimeDB 负责初始化stats模块的数据库部分：
// 迁移platform_stats表并保证单例行存在。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&PlatformStats{}); err != nil {
		return fmt.Errorf("无法迁移platform_stats表: %w", err)
	}
	if _, err := GetOrCreate(database.DB); err != nil {
		return fmt.Errorf("无法初始化统计单例: %w", err)
	}
	fmt.Println("PlatformStats数据库表迁移成功。")
	return nil
}
