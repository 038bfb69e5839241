package stats_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/item"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&user.User{}, &item.Item{}, &stats.PlatformStats{}))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u, err := user.Register(db, username, username+" Fullname", "pass1234")
	require.NoError(t, err)
	return u
}

func createItem(t *testing.T, db *gorm.DB, owner *user.User, itemType string) *item.Item {
	t.Helper()
	it, err := item.CreateListing(db, owner, item.CreateInput{
		ItemType: itemType,
		Category: "杂物",
		Title:    fmt.Sprintf("%s 启事 %d", itemType, time.Now().UnixNano()),
		City:     "上海",
	})
	require.NoError(t, err)
	return it
}

func TestGetOrCreate_SingletonIdempotent(t *testing.T) {
	db := newTestDB(t)

	first, err := stats.GetOrCreate(db)
	require.NoError(t, err)
	assert.Zero(t, first.TotalUsers)
	assert.Zero(t, first.FoundItems)
	assert.Nil(t, first.LastUpdated)

	second, err := stats.GetOrCreate(db)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&stats.PlatformStats{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "单例表中必须恰好一行")
}

func TestGetOrCreate_ConcurrentCallersSingleRow(t *testing.T) {
	db := newTestDB(t)

	const workers = 16
	var wg sync.WaitGroup
	ids := make([]uint, workers)
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			s, err := stats.GetOrCreate(db)
			if err != nil {
				errs[w] = err
				return
			}
			ids[w] = s.ID
		}(w)
	}
	wg.Wait()

	for w, err := range errs {
		require.NoError(t, err, "worker %d", w)
	}
	for w, id := range ids {
		assert.Equal(t, ids[0], id, "worker %d 拿到了不同的单例行", w)
	}

	var count int64
	require.NoError(t, db.Model(&stats.PlatformStats{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "并发创建后单例表中仍必须恰好一行")
}

func TestRecompute_CountsFromAuthoritativeTables(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")

	for i := 0; i < 3; i++ {
		createItem(t, db, owner, item.TypeLost)
	}
	for i := 0; i < 2; i++ {
		createItem(t, db, owner, item.TypeFound)
	}

	s, err := stats.Recompute(db)
	require.NoError(t, err)

	assert.Equal(t, 1, s.TotalUsers)
	assert.Equal(t, 5, s.TotalItems)
	assert.Equal(t, 5, s.ActiveItems)
	assert.Equal(t, 3, s.LostItems)
	assert.Equal(t, 2, s.FoundItemsReported)
	assert.Equal(t, 0, s.FoundItems)
	require.NotNil(t, s.LastUpdated)
	assert.WithinDuration(t, time.Now(), *s.LastUpdated, time.Minute)
}

func TestRecompute_SeesRetiredReturnedItems(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")

	it := createItem(t, db, owner, item.TypeLost)
	createItem(t, db, owner, item.TypeLost)
	require.NoError(t, item.RetireListing(db, it.ItemID, owner.ID, item.RetireReasonFound))

	s, err := stats.Recompute(db)
	require.NoError(t, err)

	assert.Equal(t, 1, s.FoundItems, "returned的启事虽已下架，仍应计入找回数")
	assert.Equal(t, 1, s.ActiveItems)
	assert.Equal(t, 1, s.TotalItems, "总数只统计在册启事")
}

func TestIncrementFound(t *testing.T) {
	db := newTestDB(t)

	n, err := stats.IncrementFound(db)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = stats.IncrementFound(db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	s, err := stats.GetOrCreate(db)
	require.NoError(t, err)
	assert.Equal(t, 2, s.FoundItems)
	require.NotNil(t, s.LastUpdated)
}

func TestIncrementFound_ConcurrentCountsDistinct(t *testing.T) {
	db := newTestDB(t)

	const workers = 10
	var wg sync.WaitGroup
	counts := make([]int, workers)
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			counts[w], errs[w] = stats.IncrementFound(db)
		}(w)
	}
	wg.Wait()

	for w, err := range errs {
		require.NoError(t, err, "worker %d", w)
	}

	// 每次自增必须报告一个不同的新计数
	seen := make(map[int]bool, workers)
	for _, n := range counts {
		assert.False(t, seen[n], "重复的计数 %d", n)
		seen[n] = true
	}

	s, err := stats.GetOrCreate(db)
	require.NoError(t, err)
	assert.Equal(t, workers, s.FoundItems)
}

func TestGetDailyStats(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")

	fresh := createItem(t, db, owner, item.TypeLost)
	stale := createItem(t, db, owner, item.TypeLost)

	// 把一条启事挪到8天前，它不应再被计入7日窗口
	require.NoError(t, db.Model(&item.Item{}).Where("id = ?", stale.ID).
		Update("created_at", time.Now().AddDate(0, 0, -8)).Error)

	require.NoError(t, item.RetireListing(db, fresh.ItemID, owner.ID, item.RetireReasonFound))

	d, err := stats.GetDailyStats(db)
	require.NoError(t, err)
	assert.Equal(t, 1, d.NewUsers7Days)
	assert.Equal(t, 1, d.NewItems7Days)
	assert.Equal(t, 1, d.FoundItems7Days)
}

func TestGroupStats(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "alice")

	for i := 0; i < 3; i++ {
		_, err := item.CreateListing(db, owner, item.CreateInput{
			ItemType: item.TypeLost,
			Category: "钱包",
			Title:    fmt.Sprintf("钱包启事 %d", i),
			City:     "上海",
		})
		require.NoError(t, err)
	}
	_, err := item.CreateListing(db, owner, item.CreateInput{
		ItemType: item.TypeFound,
		Category: "钥匙",
		Title:    "拾到钥匙",
		City:     "北京",
	})
	require.NoError(t, err)

	categories, err := stats.GetCategoryStats(db)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "钱包", categories[0].Name, "数量多的分类应排在前面")
	assert.Equal(t, 3, categories[0].Count)

	cities, err := stats.GetCityStats(db)
	require.NoError(t, err)
	require.Len(t, cities, 2)
	assert.Equal(t, "上海", cities[0].Name)
	assert.Equal(t, 3, cities[0].Count)
}
