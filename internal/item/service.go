package item

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/stats"
	"github.com/SlpAus/lost-and-found-backend/internal/user"
	"github.com/SlpAus/lost-and-found-backend/pkg/apperror"
	"github.com/SlpAus/lost-and-found-backend/pkg/shortid"
	"gorm.io/gorm"
)

const (
	// DateLayout 是启事日期的表单格式。
	DateLayout = "2006-01-02"

	// DefaultPageSize 是无显式limit时搜索结果的上限。
	// 历史版本在20到50之间摇摆，这里固定为20。
	DefaultPageSize = 20

	// maxItemIDAttempts 是公开ItemID冲突时的重试上限。
	maxItemIDAttempts = 5
)

// CreateInput 是创建启事所需的全部表单字段。
type CreateInput struct {
	ItemType     string
	Category     string
	Title        string
	Description  string
	City         string
	Location     string
	Date         string // DateLayout格式，缺失或无法解析时取今天
	ContactName  string
	ContactPhone string
	ContactEmail string
}

// CreateListing 校验输入并在一个事务内创建新启事。
// 缺失的联系人姓名回落到发布者的显示名；日期无法解析时取今天。
func CreateListing(db *gorm.DB, owner *user.User, input CreateInput) (*Item, error) {
	itemType := strings.TrimSpace(input.ItemType)
	if itemType != TypeLost && itemType != TypeFound {
		return nil, apperror.New(apperror.ErrValidation, "启事类型必须是 lost 或 found")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperror.New(apperror.ErrValidation, "标题不能为空")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, apperror.New(apperror.ErrValidation, "分类不能为空")
	}
	if strings.TrimSpace(input.City) == "" {
		return nil, apperror.New(apperror.ErrValidation, "城市不能为空")
	}

	// 无法解析的日期不是致命错误，取今天
	date, err := time.Parse(DateLayout, strings.TrimSpace(input.Date))
	if err != nil {
		date = time.Now().Truncate(24 * time.Hour)
	}

	contactName := strings.TrimSpace(input.ContactName)
	if contactName == "" {
		contactName = owner.FullName
	}

	newItem := Item{
		UserID:       owner.ID,
		ItemType:     itemType,
		Category:     strings.TrimSpace(input.Category),
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		City:         strings.TrimSpace(input.City),
		Location:     strings.TrimSpace(input.Location),
		Date:         date,
		ContactName:  contactName,
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		Status:       StatusActive,
	}

	for attempt := 0; attempt < maxItemIDAttempts; attempt++ {
		itemID, err := shortid.New()
		if err != nil {
			return nil, err
		}
		newItem.ItemID = itemID

		err = db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&newItem).Error
		})
		if err == nil {
			return &newItem, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("无法创建启事: %w", err)
		}
		// ItemID撞上了已有记录，换一个再试
	}

	return nil, apperror.New(apperror.ErrConflict, "多次尝试后仍无法分配唯一的启事标识符")
}

// SearchQuery 是搜索的过滤条件，零值字段表示不过滤。
type SearchQuery struct {
	Query    string // 对标题/描述/分类做大小写不敏感的子串匹配
	Category string
	City     string
	ItemType string
	Limit    int // <=0 时取DefaultPageSize
}

// SearchListings 返回匹配的在册启事，只含status=active，按最新在前排序。
func SearchListings(db *gorm.DB, q SearchQuery) ([]Item, error) {
	query := db.Where("status = ?", StatusActive)

	if text := strings.TrimSpace(q.Query); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.City != "" {
		query = query.Where("city = ?", q.City)
	}
	if q.ItemType != "" {
		query = query.Where("item_type = ?", q.ItemType)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	var items []Item
	err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("搜索启事失败: %w", err)
	}
	return items, nil
}

// ListingsByOwner 返回某用户名下的全部在册启事（任意状态），按最新在前。
// 走UserID上的索引，不做全表扫描。
func ListingsByOwner(db *gorm.DB, ownerID uint) ([]Item, error) {
	var items []Item
	err := db.Where("user_id = ?", ownerID).Order("created_at DESC, id DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询用户启事失败: %w", err)
	}
	return items, nil
}

// GetByItemID 按公开标识符查找启事。已下架(软删除)的启事视为不存在。
func GetByItemID(db *gorm.DB, itemID string) (*Item, error) {
	var it Item
	err := db.Where("item_id = ?", itemID).First(&it).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "找不到标识符为 %s 的启事", itemID)
		}
		return nil, fmt.Errorf("查询启事失败: %w", err)
	}
	return &it, nil
}

// RetireListing 下架一条启事。
// 原因为"found"时，状态置为returned、软删除并自增统计的找回计数，
// 三者在同一个事务内完成；其他原因状态置为closed，不动计数。
// 调用者不是发布者时返回PermissionError，启事保持不变。
func RetireListing(db *gorm.DB, itemID string, requesterID uint, reason string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		it, err := getOwnedItem(tx, itemID, requesterID)
		if err != nil {
			return err
		}

		newStatus := StatusClosed
		if reason == RetireReasonFound {
			newStatus = StatusReturned
		}
		if err := tx.Model(it).Update("status", newStatus).Error; err != nil {
			return fmt.Errorf("无法更新启事状态: %w", err)
		}
		if err := tx.Delete(it).Error; err != nil {
			return fmt.Errorf("无法下架启事: %w", err)
		}

		if reason == RetireReasonFound {
			if _, err := stats.IncrementFoundInTx(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteListing 由发布者直接删除一条启事，不触碰任何计数。
func DeleteListing(db *gorm.DB, itemID string, requesterID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		it, err := getOwnedItem(tx, itemID, requesterID)
		if err != nil {
			return err
		}
		if err := tx.Delete(it).Error; err != nil {
			return fmt.Errorf("无法删除启事: %w", err)
		}
		return nil
	})
}

// getOwnedItem 在事务内查找启事并校验所有权。
func getOwnedItem(tx *gorm.DB, itemID string, requesterID uint) (*Item, error) {
	it, err := GetByItemID(tx, itemID)
	if err != nil {
		return nil, err
	}
	if it.UserID != requesterID {
		return nil, apperror.New(apperror.ErrPermission, "只有发布者本人可以操作这条启事")
	}
	return it, nil
}
