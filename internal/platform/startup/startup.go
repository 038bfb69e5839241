package startup

import (
	"fmt"

	"github.com/SlpAus/lost-and-found-backend/internal/item"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/config"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/internal/user"
)

// InitializeApplication 是应用首次启动时执行的总入口。
// 迁移全部数据表、保证统计单例存在，并在用户表为空时种子管理员账户。
// 所有步骤都是幂等的，可以安全地重复执行。
func InitializeApplication() error {
	fmt.Println("开始应用首次初始化...")

	if err := user.PrimeDB(); err != nil {
		return err
	}
	if err := item.PrimeDB(); err != nil {
		return err
	}
	if err := stats.PrimeDB(); err != nil {
		return err
	}

	// 一次性引导：空库时种子admin账户
	if err := user.EnsureAdminUser(database.DB, config.Cfg.Security.AdminInitialPassword); err != nil {
		return err
	}

	// 启动时做一次全量重算，让统计从一开始就与权威表一致
	if _, err := stats.Recompute(database.DB); err != nil {
		return err
	}

	fmt.Println("应用初始化完成！")
	return nil
}
