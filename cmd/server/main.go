package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/lost-and-found-backend/api"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/config"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/health"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/shutdown"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/startup"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/pkg/lifecycle"
	"github.com/SlpAus/lost-and-found-backend/pkg/token"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("无法加载配置: %v", err))
	}

	token.GenerateSecretKey()
	database.InitDB(cfg.Database.Sqlite)
	database.InitRedis(cfg.Database.Redis)

	// 执行应用首次启动初始化流程
	if err := startup.InitializeApplication(); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 在同一个生命周期管理器下启动后台服务
	manager := lifecycle.NewManager()

	healthHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	health.StartRedisHealthCheck(healthHandle)

	refresherHandle, err := manager.NewServiceHandle("stats-refresher")
	if err != nil {
		panic(err)
	}
	stats.StartRefresher(refresherHandle, cfg.Stats.RefreshInterval)

	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		fmt.Printf("服务器已准备就绪，开始监听 %s\n", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(manager)
	coordinator.ListenForSignalsAndShutdown(server)
}
