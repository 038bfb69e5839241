package user

import (
	"net/http"
	"time"

	"github.com/SlpAus/lost-and-found-backend/internal/platform/database"
	"github.com/SlpAus/lost-and-found-backend/pkg/apperror"
	"github.com/SlpAus/lost-and-found-backend/pkg/token"
	"github.com/gin-gonic/gin"
)

// --- API请求/响应模型 ---

type RegisterRequest struct {
	Username        string `form:"username" json:"username"`
	FullName        string `form:"full_name" json:"full_name"`
	Password        string `form:"password" json:"password"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
}

type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

type UserResponse struct {
	UID       string    `json:"uid"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

func formatUser(u *User) UserResponse {
	return UserResponse{
		UID:       u.UID,
		Username:  u.Username,
		FullName:  u.FullName,
		CreatedAt: u.CreatedAt,
	}
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

// setSessionCookie 为给定用户签发会话Token并写入Cookie。
func setSessionCookie(c *gin.Context, u *User) error {
	sessionToken, err := token.IssueSessionToken(u.UID)
	if err != nil {
		return err
	}
	c.SetCookie(CookieName, sessionToken, CookieMaxAge, "/", "", false, true)
	return nil
}

// --- 控制器函数 ---

// RegisterHandler 处理新用户注册，成功后直接建立会话。
func RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	// 确认密码只在边界层校验，服务层不关心它
	if req.Password != req.PasswordConfirm {
		c.JSON(http.StatusBadRequest, gin.H{"error": "两次输入的密码不一致"})
		return
	}

	newUser, err := Register(database.DB, req.Username, req.FullName, req.Password)
	if err != nil {
		respondError(c, err, "注册失败，请稍后重试")
		return
	}

	if err := setSessionCookie(c, newUser); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "会话创建失败"})
		return
	}
	c.JSON(http.StatusCreated, formatUser(newUser))
}

// LoginHandler 处理登录。
func LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	u, err := Authenticate(database.DB, req.Username, req.Password)
	if err != nil {
		if apperror.IsValidation(err) {
			// 统一的失败消息，不泄露用户名是否存在
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败，请稍后重试"})
		return
	}

	if err := setSessionCookie(c, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "会话创建失败"})
		return
	}
	c.JSON(http.StatusOK, formatUser(u))
}

// LogoutHandler 清除会话Cookie。
func LogoutHandler(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// MeHandler 返回当前登录用户的信息。
func MeHandler(c *gin.Context) {
	u, err := GetByUID(database.DB, CurrentUID(c))
	if err != nil {
		respondError(c, err, "获取用户信息失败")
		return
	}
	c.JSON(http.StatusOK, formatUser(u))
}
