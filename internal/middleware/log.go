package middleware

import (
	"bytes"
	"io"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditMiddleware 记录已登录用户的操作日志。
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 读取请求体（之后还回去）。带密码的接口不抓取请求体。
		var bodyBytes []byte
		if c.Request.Body != nil && !sensitivePath(c.Request.URL.Path) {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		// 执行请求
		c.Next()

		// 只记录登录用户的操作。登录接口在 handler 里才建立会话，
		// 所以这里取的是请求开始时的用户。
		user := CurrentUser(c)
		if user == nil {
			return
		}
		userID := user.ID

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 2000 {
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Method:    c.Request.Method,
			Path:      path,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}

func sensitivePath(path string) bool {
	switch path {
	case "/login", "/register", "/profile":
		return true
	}
	return false
}
