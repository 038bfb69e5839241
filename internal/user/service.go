package user

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/lost-and-found-backend/pkg/apperror"
	"github.com/SlpAus/lost-and-found-backend/pkg/shortid"
	"gorm.io/gorm"
)

const (
	minUsernameLen = 3
	minPasswordLen = 4

	// maxUIDAttempts 是公开UID冲突时的重试上限。
	// 8位随机字母数字在这个规模下几乎不会碰撞，重试是兜底。
	maxUIDAttempts = 5
)

// ErrInvalidCredentials 是登录失败的统一错误。
// 刻意不区分"用户不存在"和"密码错误"，避免泄露句柄是否被注册。
var ErrInvalidCredentials = apperror.New(apperror.ErrValidation, "用户名或密码错误")

// Register 校验输入、散列密码并在一个事务内创建新用户。
// 用户名已被占用时返回ConflictError。
func Register(db *gorm.DB, username, fullName, password string) (*User, error) {
	username = strings.TrimSpace(username)
	fullName = strings.TrimSpace(fullName)

	if len(username) < minUsernameLen {
		return nil, apperror.Newf(apperror.ErrValidation, "用户名至少需要%d个字符", minUsernameLen)
	}
	if fullName == "" {
		return nil, apperror.New(apperror.ErrValidation, "显示名不能为空")
	}
	if len(password) < minPasswordLen {
		return nil, apperror.Newf(apperror.ErrValidation, "密码至少需要%d个字符", minPasswordLen)
	}

	newUser := User{Username: username, FullName: fullName}
	if err := newUser.SetPassword(password); err != nil {
		return nil, fmt.Errorf("无法散列密码: %w", err)
	}

	for attempt := 0; attempt < maxUIDAttempts; attempt++ {
		uid, err := shortid.New()
		if err != nil {
			return nil, err
		}
		newUser.UID = uid

		err = db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&newUser).Error
		})
		if err == nil {
			return &newUser, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("无法创建新用户: %w", err)
		}

		// 唯一约束冲突：先判断是不是用户名被占用，否则换一个UID重试
		taken, checkErr := usernameTaken(db, username)
		if checkErr != nil {
			return nil, checkErr
		}
		if taken {
			return nil, apperror.Newf(apperror.ErrConflict, "用户名 %s 已被占用", username)
		}
	}

	return nil, apperror.New(apperror.ErrConflict, "多次尝试后仍无法分配唯一的用户标识符")
}

// Authenticate 按用户名查找用户并校验密码。
// 任何一步失败都返回同一个ErrInvalidCredentials。
func Authenticate(db *gorm.DB, username, password string) (*User, error) {
	var u User
	err := db.Where("username = ?", strings.TrimSpace(username)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	if !u.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// GetByUID 按公开UID查找用户。
func GetByUID(db *gorm.DB, uid string) (*User, error) {
	var u User
	err := db.Where("uid = ?", uid).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.ErrNotFound, "找不到UID为 %s 的用户", uid)
		}
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	return &u, nil
}

// EnsureAdminUser 在用户表为空时种子一个管理员账户。
// 幂等：只要表里已有任何用户就什么都不做。
func EnsureAdminUser(db *gorm.DB, initialPassword string) error {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("无法统计用户数: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := Register(db, "admin", "Administrator", initialPassword); err != nil {
		return fmt.Errorf("无法创建种子管理员账户: %w", err)
	}
	fmt.Println("用户表为空，已创建种子管理员账户 admin。")
	return nil
}

func usernameTaken(db *gorm.DB, username string) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("检查用户名占用失败: %w", err)
	}
	return count > 0, nil
}
