package item

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/config"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/internal/user"
	"github.com/SlpAus/lost-and-found-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// --- API请求/响应模型 ---

type CreateItemRequest struct {
	ItemType     string `form:"item_type" json:"item_type"`
	Category     string `form:"category" json:"category"`
	Title        string `form:"title" json:"title"`
	Description  string `form:"description" json:"description"`
	City         string `form:"city" json:"city"`
	Location     string `form:"location" json:"location"`
	Date         string `form:"date" json:"date"`
	ContactName  string `form:"contact_name" json:"contact_name"`
	ContactPhone string `form:"contact_phone" json:"contact_phone"`
	ContactEmail string `form:"contact_email" json:"contact_email"`
}

type ItemResponse struct {
	ItemID       string    `json:"item_id"`
	ItemType     string    `json:"item_type"`
	Category     string    `json:"category"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	City         string    `json:"city"`
	Location     string    `json:"location"`
	Date         string    `json:"date"`
	ContactName  string    `json:"contact_name"`
	ContactPhone string    `json:"contact_phone"`
	ContactEmail string    `json:"contact_email"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func formatItem(it *Item) ItemResponse {
	return ItemResponse{
		ItemID:       it.ItemID,
		ItemType:     it.ItemType,
		Category:     it.Category,
		Title:        it.Title,
		Description:  it.Description,
		City:         it.City,
		Location:     it.Location,
		Date:         it.Date.Format(DateLayout),
		ContactName:  it.ContactName,
		ContactPhone: it.ContactPhone,
		ContactEmail: it.ContactEmail,
		Status:       it.Status,
		CreatedAt:    it.CreatedAt,
	}
}

func formatItems(items []Item) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, formatItem(&items[i]))
	}
	return responses
}

// respondError 将服务层的分类错误翻译为HTTP响应。
func respondError(c *gin.Context, err error, internalMsg string) {
	status := apperror.StatusCode(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": internalMsg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser 解析会话中的UID对应的用户记录。
func currentUser(c *gin.Context) (*user.User, bool) {
	u, err := user.GetByUID(database.DB, user.CurrentUID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "会话对应的用户不存在，请重新登录"})
		return nil, false
	}
	return u, true
}

// --- 控制器函数 ---

// CreateHandler 处理发布新启事。
func CreateHandler(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	newItem, err := CreateListing(database.DB, owner, CreateInput(req))
	if err != nil {
		respondError(c, err, "发布启事失败，请稍后重试")
		return
	}
	c.JSON(http.StatusCreated, formatItem(newItem))
}

// SearchHandler 处理启事搜索，支持q/category/city/type/limit查询参数。
func SearchHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit必须是正整数"})
			return
		}
		limit = parsed
	}
	if limit <= 0 && config.Cfg != nil {
		limit = config.Cfg.Search.PageSize
	}

	items, err := SearchListings(database.DB, SearchQuery{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		City:     c.Query("city"),
		ItemType: c.Query("type"),
		Limit:    limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "搜索启事失败"})
		return
	}
	c.JSON(http.StatusOK, formatItems(items))
}

// GetHandler 按公开标识符返回单条启事。
func GetHandler(c *gin.Context) {
	it, err := GetByItemID(database.DB, c.Param("id"))
	if err != nil {
		respondError(c, err, "查询启事失败")
		return
	}
	c.JSON(http.StatusOK, formatItem(it))
}

// MineHandler 返回当前用户名下的全部启事。
func MineHandler(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := ListingsByOwner(database.DB, owner.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询我的启事失败"})
		return
	}
	c.JSON(http.StatusOK, formatItems(items))
}

// FoundHandler 将启事标记为已找回并下架。
func FoundHandler(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	if err := RetireListing(database.DB, c.Param("id"), owner.ID, RetireReasonFound); err != nil {
		respondError(c, err, "标记找回失败，请稍后重试")
		return
	}

	// 事务已提交，丢弃过期的统计快照
	stats.InvalidateCache()
	c.JSON(http.StatusOK, gin.H{"message": "启事已标记为找回并下架"})
}

// CloseHandler 将启事以普通原因下架，不触碰找回计数。
func CloseHandler(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	if err := RetireListing(database.DB, c.Param("id"), owner.ID, RetireReasonClosed); err != nil {
		respondError(c, err, "下架启事失败，请稍后重试")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "启事已下架"})
}

// DeleteHandler 由发布者直接删除启事。
func DeleteHandler(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	if err := DeleteListing(database.DB, c.Param("id"), owner.ID); err != nil {
		respondError(c, err, "删除启事失败，请稍后重试")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "启事已删除"})
}
