package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/config"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
)

// BasicStatsResponse 是 GET /api/stats 的响应模型。
type BasicStatsResponse struct {
	TotalUsers         int        `json:"total_users"`
	ActiveItems        int        `json:"active_items"`
	FoundItems         int        `json:"found_items"`
	TotalItems         int        `json:"total_items"`
	LostItems          int        `json:"lost_items"`
	FoundItemsReported int        `json:"found_items_reported"`
	LastUpdated        *time.Time `json:"last_updated"`
	TimeAgo            string     `json:"time_ago"`
}

// GetBasicStats 返回平台统计快照。
// 优先读Redis缓存，未命中时回源数据库并回填缓存。
func GetBasicStats(c *gin.Context) {
	if payload, ok := readCachedBasicStats(); ok {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
		return
	}

	s, err := GetOrCreate(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取平台统计失败"})
		return
	}

	resp := BasicStatsResponse{
		TotalUsers:         s.TotalUsers,
		ActiveItems:        s.ActiveItems,
		FoundItems:         s.FoundItems,
		TotalItems:         s.TotalItems,
		LostItems:          s.LostItems,
		FoundItemsReported: s.FoundItemsReported,
		LastUpdated:        s.LastUpdated,
		TimeAgo:            HumanizeLastUpdated(s),
	}

	if config.Cfg != nil {
		if payload, err := json.Marshal(resp); err == nil {
			writeCachedBasicStats(string(payload), config.Cfg.Stats.CacheTTL)
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetDaily 返回最近7天的活动统计。
func GetDaily(c *gin.Context) {
	d, err := GetDailyStats(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取7日统计失败"})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GetCategories 返回按分类聚合的在册启事数。
func GetCategories(c *gin.Context) {
	rows, err := GetCategoryStats(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取分类统计失败"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetCities 返回按城市聚合的在册启事数。
func GetCities(c *gin.Context) {
	rows, err := GetCityStats(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取城市统计失败"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
