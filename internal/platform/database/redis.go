package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是一个全局的Redis客户端实例，仅用作统计快照的读缓存。
var RDB *redis.Client

// Ctx 是一个全局的上下文，用于Redis操作
var Ctx = context.Background()

// InitRedis 初始化与Redis的连接。
// Redis只是缓存，连接失败不会阻止应用启动，只会将其标记为不可用。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		fmt.Printf("警告: 无法连接到Redis (%v)，统计缓存将被禁用，直到其恢复。\n", err)
		UpdateRedisStatus(false)
		return
	}

	UpdateRedisStatus(true)
	fmt.Println("Redis 连接成功！")
}
