package stats

import (
	"time"

	"gorm.io/gorm"
)

// PlatformStats 定义了平台统计的单例行。
// 这张表中应该只有一条记录，所有计数均可由users/items表重算得出，
// 唯一的例外是FoundItems，它还会被"标记找回"操作直接自增。
type PlatformStats struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// TotalUsers 是注册用户总数。
	TotalUsers int `json:"total_users"`

	// ActiveItems 是状态为active的在册启事数。
	ActiveItems int `json:"active_items"`

	// FoundItems 是已被标记找回(status=returned)的启事数。
	FoundItems int `json:"found_items"`

	// TotalItems 是在册启事总数（不含已删除）。
	TotalItems int `json:"total_items"`

	// LostItems 是类型为lost的在册启事数。
	LostItems int `json:"lost_items"`

	// FoundItemsReported 是类型为found的在册启事数。
	FoundItemsReported int `json:"found_items_reported"`

	// LastUpdated 是最近一次统计写入的时间，nil表示从未更新过。
	LastUpdated *time.Time `json:"last_updated"`
}

// TableName 固定表名，避免GORM复数化出意外。
func (PlatformStats) TableName() string { return "platform_stats" }
