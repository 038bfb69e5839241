package shortid

import (
	"crypto/rand"
	"fmt"
)

// alphabet 是公开标识符使用的字符集。
// 只包含大小写字母和数字，便于在URL和口头沟通中使用。
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length 是对外暴露的公开标识符的固定长度。
const Length = 8

// New 生成一个密码学安全的8位随机字母数字标识符。
// 它不保证全局唯一，唯一性由调用方通过数据库唯一索引加重试来兜底。
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("无法生成随机标识符: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}
