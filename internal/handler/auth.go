package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/middleware"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/session"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 负责登录/注册/登出相关接口
type AuthHandler struct {
	DB           *gorm.DB
	Sessions     *session.Store
	CookieName   string
	CookieSecure bool
}

// NewAuthHandler 构造函数
func NewAuthHandler(db *gorm.DB, sessions *session.Store, cookieName string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		DB:           db,
		Sessions:     sessions,
		CookieName:   cookieName,
		CookieSecure: cookieSecure,
	}
}

// 登录/注册成功时返回的用户信息
func authUserPayload(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	// 安全部署下跨站发送（None+Secure），否则 Strict
	if h.CookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(h.CookieName, token, int(h.Sessions.TTL().Seconds()), "/", "", h.CookieSecure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	if h.CookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(h.CookieName, "", -1, "/", "", h.CookieSecure, true)
}

// ---------- 登录 ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验凭证并建立会话。
// 不存在 / 被禁用 / 密码错误对外都是同一句 401，防止账号枚举。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := util.NormalizeEmail(req.Email)

	var user models.User
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		} else {
			log.Printf("login lookup error: %v", err)
			util.Fail(c, http.StatusInternalServerError, "Login failed. Please try again.")
		}
		return
	}

	if !user.IsActive {
		// 服务端留痕，客户端只看到通用错误
		log.Printf("login rejected for disabled account: %s", user.Username)
		util.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		util.Fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	// 先记录登录时间，再建立会话
	now := time.Now()
	user.LastLogin = &now
	if err := h.DB.Save(&user).Error; err != nil {
		log.Printf("login save error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}

	token, err := h.Sessions.Create(user.ID)
	if err != nil {
		log.Printf("session create error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Login failed. Please try again.")
		return
	}
	h.setSessionCookie(c, token)

	util.OK(c, gin.H{
		"message":  "Login successful!",
		"user":     authUserPayload(&user),
		"redirect": "/dashboard",
	})
}

// ---------- 注册 ----------

type registerReq struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register 创建账号并自动登录，成功时返回和 Login 相同的结构。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "All fields are required")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	email := util.NormalizeEmail(req.Email)

	if req.Username == "" || email == "" || req.Password == "" || req.ConfirmPassword == "" {
		util.Fail(c, http.StatusBadRequest, "All fields are required")
		return
	}
	if req.Password != req.ConfirmPassword {
		util.Fail(c, http.StatusBadRequest, "Passwords do not match")
		return
	}
	if err := util.ValidatePassword(req.Password); err != nil {
		util.Fail(c, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}
	if err := util.ValidateUsername(req.Username); err != nil {
		util.Fail(c, http.StatusBadRequest, "Username must be between 3 and 30 characters")
		return
	}

	// 邮箱/用户名唯一性（邮箱不区分大小写，存小写）
	var existing models.User
	err := h.DB.Where("email = ? OR username = ?", email, req.Username).First(&existing).Error
	if err == nil {
		if existing.Email == email {
			util.Fail(c, http.StatusBadRequest, "Email already registered")
		} else {
			util.Fail(c, http.StatusBadRequest, "Username already taken")
		}
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("register lookup error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	// 哈希失败必须中止写入
	hash, err := util.HashPassword(req.Password)
	if err != nil {
		log.Printf("register hash error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		log.Printf("register create error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Registration failed. Please try again.")
		return
	}

	// 注册成功直接登录
	token, err := h.Sessions.Create(user.ID)
	if err != nil {
		log.Printf("auto-login error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Registration successful but auto-login failed. Please login.")
		return
	}
	h.setSessionCookie(c, token)

	util.OK(c, gin.H{
		"message":  "Registration successful! You are now logged in.",
		"user":     authUserPayload(&user),
		"redirect": "/dashboard",
	})
}

// ---------- 登出 ----------

// Logout 销毁会话（幂等）。
func (h *AuthHandler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.CookieName)
	if err := h.Sessions.Destroy(token); err != nil {
		log.Printf("logout error: %v", err)
		util.Fail(c, http.StatusInternalServerError, "Logout failed")
		return
	}
	h.clearSessionCookie(c)
	util.OK(c, gin.H{"message": "Logged out successfully"})
}

// ---------- 会话状态 ----------

// Status 返回当前会话状态，始终公开。
func (h *AuthHandler) Status(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
			"isActive": user.IsActive,
		},
	})
}
