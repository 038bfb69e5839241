package user

import (
	"fmt"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
)

// PrimeDB 负责初始化user模块的数据库部分。
func PrimeDB() error {
	if err := database.DB.AutoMigrate(&User{}); err != nil {
		return fmt.Errorf("无法迁移users表: %w", err)
	}
	fmt.Println("User数据库表迁移成功。")
	return nil
}
