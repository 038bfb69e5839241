package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的GORM数据库句柄，供各业务模块使用。
var DB *gorm.DB

// InitDB 初始化SQLite数据库连接。
func InitDB(cfg config.SqliteConfig) {
	var err error

	// GORM日志配置
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent, // 在生产环境中可以设为Silent
			Colorful:      true,
		},
	)

	DB, err = gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: newLogger,
		// 将底层驱动的唯一约束错误翻译为 gorm.ErrDuplicatedKey，
		// 公开标识符的冲突重试依赖这个行为。
		TranslateError: true,
	})

	if err != nil {
		fmt.Println("连接数据库失败", err)
		panic(err)
	}

	fmt.Println("数据库连接成功！")
}
