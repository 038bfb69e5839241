package user

import (
	"net/http"

	"github.com/SlpAus/lost-and-found-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

const (
	CookieName   = "lf-session"
	CookieMaxAge = 7 * 24 * 60 * 60
	UserUIDKey   = "userUID"
)

// RequireUserMiddleware 验证会话Cookie并把用户UID放入Gin上下文。
// 没有有效会话的请求会被以401中止。
func RequireUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionCookie, err := c.Cookie(CookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}

		payload, ok := token.ValidateSessionToken(sessionCookie)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "会话无效或已过期，请重新登录"})
			return
		}

		c.Set(UserUIDKey, payload.UserUID)
		c.Next()
	}
}

// CurrentUID 从Gin上下文中取出已验证的用户UID。
// 只应在RequireUserMiddleware之后的handler中调用。
func CurrentUID(c *gin.Context) string {
	uid, _ := c.Get(UserUIDKey)
	s, _ := uid.(string)
	return s
}
