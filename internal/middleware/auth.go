package middleware

import (
	"log"
	"net/http"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/session"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// CurrentUser 取出 ResolveSession 放入 context 的用户，未登录返回 nil。
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// SessionToken 返回本次请求携带的会话 token（可能为空）。
func SessionToken(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

// ResolveSession 从 cookie 解析会话并把用户放进 context。
// 解析失败只记录日志，请求按未登录继续（fail closed 由后面的 gate 负责）。
// 已登录的写请求会把会话有效期顺延。
func ResolveSession(store *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		user, err := store.Resolve(token)
		if err != nil {
			log.Printf("session resolve error: %v", err)
			c.Next()
			return
		}
		if user == nil {
			c.Next()
			return
		}

		c.Set(currentUserKey, user)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if err := store.Touch(token); err != nil {
				log.Printf("session touch error: %v", err)
			}
		}

		c.Next()
	}
}

// RequireAuthPage 页面路由：未登录跳转首页。
func RequireAuthPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminPage 页面路由：非管理员直接 403。
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			c.String(http.StatusForbidden, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAuthAPI API 路由：未登录返回 401 JSON，绝不重定向。
func RequireAuthAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			util.Fail(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI API 路由：未登录 401，非管理员 403。
func RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Fail(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		if !user.IsAdmin() {
			util.Fail(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// APIWriteGuard 作用在整个 /api 组上：写方法一律要求登录，
// /api/auth/status 永远放行。
func APIWriteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/auth/status" {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if CurrentUser(c) == nil {
				util.Fail(c, http.StatusUnauthorized, "Authentication required")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
