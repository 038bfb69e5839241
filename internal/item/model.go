package item

import (
	"time"

	"gorm.io/gorm"
)

// 启事类型。
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// 启事生命周期状态。
const (
	StatusActive   = "active"
	StatusClosed   = "closed"
	StatusReturned = "returned"
)

// 下架原因。
const (
	RetireReasonFound  = "found"
	RetireReasonClosed = "closed"
)

// Item 定义了失物/拾物启事在SQLite数据库中的持久化模型。
type Item struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// ItemID 是对外暴露的短随机标识符，区别于内部自增ID。
	ItemID string `gorm:"uniqueIndex;not null;type:varchar(16)" json:"item_id"`

	// UserID 是发布者的内部ID，带索引的外键。
	// "某用户名下有哪些启事"通过这个索引回答。
	UserID uint `gorm:"index;not null" json:"-"`

	// ItemType 是启事类型，"lost" 或 "found"。
	ItemType string `gorm:"not null;type:varchar(10)" json:"item_type"`

	// Category 是物品分类，自由文本。
	Category string `gorm:"not null;type:varchar(50)" json:"category"`

	// Title 是启事标题。
	Title string `gorm:"not null;type:varchar(200)" json:"title"`

	// Description 是可选的详细描述。
	Description string `gorm:"type:text" json:"description"`

	// City 是事发城市。
	City string `gorm:"not null;type:varchar(100)" json:"city"`

	// Location 是可选的具体地点。
	Location string `gorm:"type:varchar(200)" json:"location"`

	// Date 是丢失/拾得的日期。
	Date time.Time `json:"date"`

	// 联系方式，缺省时回落到发布者的资料。
	ContactName  string `gorm:"type:varchar(100)" json:"contact_name"`
	ContactPhone string `gorm:"type:varchar(20)" json:"contact_phone"`
	ContactEmail string `gorm:"type:varchar(100)" json:"contact_email"`

	// Status 是生命周期状态：active、closed 或 returned。
	Status string `gorm:"not null;default:active;type:varchar(20)" json:"status"`
}

// TableName 固定表名。
func (Item) TableName() string { return "items" }
