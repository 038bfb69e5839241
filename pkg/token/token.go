package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// secretKey 是一个全局变量，用于存储服务器在启动时生成的32字节密钥。
// 密钥只存活于进程内，重启后所有会话自然失效。
var secretKey []byte

// SessionPayload 定义了登录会话Cookie中被签名的数据结构。
type SessionPayload struct {
	UserUID   string `json:"u"`
	SessionID string `json:"s"`
	IssuedAt  int64  `json:"t"`
}

// GenerateSecretKey 生成一个密码学安全的32字节随机密钥。
func GenerateSecretKey() {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	if err != nil {
		panic("无法生成安全的密钥: " + err.Error())
	}
	secretKey = key
	fmt.Println("HMAC会话密钥已成功生成。")
}

// sign 使用HMAC-SHA256对序列化后的payload进行签名。
func sign(payloadBytes []byte) []byte {
	mac := hmac.New(sha256.New, secretKey)
	mac.Write(payloadBytes)
	return mac.Sum(nil)
}

// IssueSessionToken 为给定用户UID签发一个新的会话Token。
// Token格式为 base64(payload) + "." + base64(signature)。
func IssueSessionToken(userUID string) (string, error) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("无法生成会话ID: %w", err)
	}

	payload := SessionPayload{
		UserUID:   userUID,
		SessionID: sessionID.String(),
		IssuedAt:  time.Now().Unix(),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", errors.New("无法序列化会话payload")
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	encodedSignature := base64.RawURLEncoding.EncodeToString(sign(payloadBytes))
	return encodedPayload + "." + encodedSignature, nil
}

// ValidateSessionToken 验证一个会话Token的签名并还原其payload。
// 任何格式或签名问题都只返回ok=false，不区分具体原因。
func ValidateSessionToken(tokenStr string) (*SessionPayload, bool) {
	encodedPayload, encodedSignature, found := strings.Cut(tokenStr, ".")
	if !found {
		return nil, false
	}

	payloadBytes, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, false
	}
	actualSignature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return nil, false
	}

	// 使用 hmac.Equal 进行时间恒定的比较，防止时序攻击
	if !hmac.Equal(sign(payloadBytes), actualSignature) {
		return nil, false
	}

	var payload SessionPayload
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		return nil, false
	}
	if payload.UserUID == "" {
		return nil, false
	}
	return &payload, true
}
