package stats

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 启事生命周期状态，与item模块的定义保持一致。
// 统计模块按表名直接计数，不引用item包，避免循环依赖。
const (
	statusActive   = "active"
	statusReturned = "returned"

	typeLost  = "lost"
	typeFound = "found"
)

// singletonID 是统计单例行固定的主键。
// 所有读写都钉在这一行上，"恰好一行"由主键唯一性保证。
const singletonID uint = 1

// GetOrCreate 返回统计单例行，不存在时创建一条全零记录。
// 幂等，可以被任意多次调用。
// 创建用带固定主键的原子upsert完成，并发调用也只会留下一行。
func GetOrCreate(db *gorm.DB) (*PlatformStats, error) {
	var s PlatformStats
	err := db.First(&s, singletonID).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("无法读取统计单例: %w", err)
	}

	seed := PlatformStats{Model: gorm.Model{ID: singletonID}}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("无法创建统计单例: %w", err)
	}

	// 无论是本次插入还是并发方抢先插入，回读的都是同一行
	if err := db.First(&s, singletonID).Error; err != nil {
		return nil, fmt.Errorf("无法回读统计单例: %w", err)
	}
	return &s, nil
}

// Recompute 从users/items表全量重算所有计数并持久化。
// 整个操作在一个事务内完成。O(n)扫描，在这个规模下可以接受。
func Recompute(db *gorm.DB) (*PlatformStats, error) {
	var result *PlatformStats
	err := db.Transaction(func(tx *gorm.DB) error {
		s, err := GetOrCreate(tx)
		if err != nil {
			return err
		}

		counts := []struct {
			dest  *int
			query *gorm.DB
		}{
			{&s.TotalUsers, tx.Table("users").Where("deleted_at IS NULL")},
			{&s.ActiveItems, tx.Table("items").Where("deleted_at IS NULL AND status = ?", statusActive)},
			// returned的启事在最终版中会被软删除，这里必须把已删除的行也算进去
			{&s.FoundItems, tx.Table("items").Where("status = ?", statusReturned)},
			{&s.TotalItems, tx.Table("items").Where("deleted_at IS NULL")},
			{&s.LostItems, tx.Table("items").Where("deleted_at IS NULL AND item_type = ?", typeLost)},
			{&s.FoundItemsReported, tx.Table("items").Where("deleted_at IS NULL AND item_type = ?", typeFound)},
		}
		for _, c := range counts {
			var n int64
			if err := c.query.Count(&n).Error; err != nil {
				return fmt.Errorf("统计计数失败: %w", err)
			}
			*c.dest = int(n)
		}

		now := time.Now()
		s.LastUpdated = &now
		if err := tx.Save(s).Error; err != nil {
			return fmt.Errorf("无法持久化统计结果: %w", err)
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	InvalidateCache()
	return result, nil
}

// IncrementFound 将FoundItems加一并刷新LastUpdated，不做全量重算。
// 返回自增后的新计数。
func IncrementFound(db *gorm.DB) (int, error) {
	var newCount int
	err := db.Transaction(func(tx *gorm.DB) error {
		return incrementFoundTx(tx, &newCount)
	})
	if err != nil {
		return 0, err
	}

	InvalidateCache()
	return newCount, nil
}

// IncrementFoundInTx 在调用方已经开启的事务内执行自增。
// "下架并标记找回"要求计数自增和启事下架是同一个原子单元，
// item模块通过它把两者放进同一个事务。
func IncrementFoundInTx(tx *gorm.DB) (int, error) {
	var newCount int
	if err := incrementFoundTx(tx, &newCount); err != nil {
		return 0, err
	}
	return newCount, nil
}

func incrementFoundTx(tx *gorm.DB, newCount *int) error {
	s, err := GetOrCreate(tx)
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]any{
		"found_items":  gorm.Expr("found_items + 1"),
		"last_updated": now,
	}
	if err := tx.Model(&PlatformStats{}).Where("id = ?", s.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("无法自增找回计数: %w", err)
	}

	// 自增发生在数据库侧，必须回读才能拿到准确的新计数
	var updated PlatformStats
	if err := tx.First(&updated, s.ID).Error; err != nil {
		return fmt.Errorf("无法回读找回计数: %w", err)
	}
	*newCount = updated.FoundItems
	return nil
}

// DailyStats 汇总最近7天的平台活动。
type DailyStats struct {
	NewUsers7Days   int `json:"new_users_7days"`
	NewItems7Days   int `json:"new_items_7days"`
	FoundItems7Days int `json:"found_items_7days"`
}

// GetDailyStats 统计最近7天的新用户、新启事和找回数。
func GetDailyStats(db *gorm.DB) (*DailyStats, error) {
	cutoff := time.Now().AddDate(0, 0, -7)

	var d DailyStats
	counts := []struct {
		dest  *int
		query *gorm.DB
	}{
		{&d.NewUsers7Days, db.Table("users").Where("deleted_at IS NULL AND created_at >= ?", cutoff)},
		{&d.NewItems7Days, db.Table("items").Where("deleted_at IS NULL AND created_at >= ?", cutoff)},
		{&d.FoundItems7Days, db.Table("items").Where("status = ? AND created_at >= ?", statusReturned, cutoff)},
	}
	for _, c := range counts {
		var n int64
		if err := c.query.Count(&n).Error; err != nil {
			return nil, fmt.Errorf("7日统计计数失败: %w", err)
		}
		*c.dest = int(n)
	}
	return &d, nil
}

// GroupCount 是按分类或城市聚合的一行结果。
type GroupCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// GetCategoryStats 统计各分类下的在册启事数，降序排列。
func GetCategoryStats(db *gorm.DB) ([]GroupCount, error) {
	return groupActiveItemsBy(db, "category")
}

// GetCityStats 统计各城市下的在册启事数，降序排列。
func GetCityStats(db *gorm.DB) ([]GroupCount, error) {
	return groupActiveItemsBy(db, "city")
}

func groupActiveItemsBy(db *gorm.DB, column string) ([]GroupCount, error) {
	var rows []GroupCount
	err := db.Table("items").
		Select(column+" as name, count(id) as count").
		Where("deleted_at IS NULL AND status = ?", statusActive).
		Group(column).
		Order("count desc").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("按%s聚合统计失败: %w", column, err)
	}
	return rows, nil
}
