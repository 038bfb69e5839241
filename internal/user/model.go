package user

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户在SQLite数据库中的持久化模型。
type User struct {
	// gorm.Model 包含 ID, CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	// UID 是对外暴露的短随机标识符，区别于内部自增ID。
	UID string `gorm:"uniqueIndex;not null;type:varchar(16)" json:"uid"`

	// Username 是登录用的唯一句柄，至少3个字符。
	Username string `gorm:"uniqueIndex;not null;type:varchar(50)" json:"username"`

	// FullName 是展示名。
	FullName string `gorm:"not null;type:varchar(100)" json:"full_name"`

	// PasswordHash 是bcrypt散列，永远不存明文密码。
	PasswordHash string `gorm:"not null;type:varchar(128)" json:"-"`
}

// SetPassword 用bcrypt对明文密码加盐散列后存入模型。
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 报告明文密码是否与存储的散列匹配。
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
