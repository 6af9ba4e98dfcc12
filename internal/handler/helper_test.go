package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/middleware"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/session"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testCookieName = "f1_session"
	testSecret     = "test-secret"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// 每个测试独立的内存库
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql db 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Constructor{},
		&models.Driver{},
		&models.Notification{},
		&models.Contact{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

// newTestRouter 按线上路由的骨架组装 API 路由（不加载模板）。
func newTestRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()

	sessions := session.NewStore(db, 7, testSecret)
	r.Use(middleware.ResolveSession(sessions, testCookieName))
	r.Use(middleware.AuditMiddleware(db))

	authHandler := NewAuthHandler(db, sessions, testCookieName, false)
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.POST("/logout", middleware.RequireAuthAPI(), authHandler.Logout)

	r.POST("/profile", middleware.RequireAuthAPI(), UpdateProfile(db))
	r.POST("/send-data", middleware.RequireAuthAPI(), SendContact(db))

	api := r.Group("/api")
	api.Use(middleware.APIWriteGuard())

	api.GET("/auth/status", authHandler.Status)
	api.GET("/info", Info)
	api.GET("/search", Search(db))

	constructorHandler := NewConstructorHandler(db)
	api.GET("/constructors", constructorHandler.List)
	api.GET("/constructors/stats", constructorHandler.Stats)
	api.GET("/constructors/:id", constructorHandler.Get)
	api.POST("/constructors", middleware.RequireAdminAPI(), constructorHandler.Create)
	api.PUT("/constructors/:id", middleware.RequireAdminAPI(), constructorHandler.Update)
	api.DELETE("/constructors/:id", middleware.RequireAdminAPI(), constructorHandler.Delete)

	driverHandler := NewDriverHandler(db)
	api.GET("/drivers", driverHandler.List)
	api.POST("/drivers", middleware.RequireAdminAPI(), driverHandler.Create)
	api.PUT("/drivers/:id", middleware.RequireAdminAPI(), driverHandler.Update)
	api.DELETE("/drivers/:id", middleware.RequireAdminAPI(), driverHandler.Delete)

	api.POST("/favorites/add", middleware.RequireAuthAPI(), AddFavorite(db))
	api.POST("/favorites/remove", middleware.RequireAuthAPI(), RemoveFavorite(db))

	adminHandler := NewAdminHandler(db)
	api.GET("/notifications", middleware.RequireAuthAPI(), adminHandler.ListNotifications)

	adminAPI := api.Group("/admin", middleware.RequireAdminAPI())
	adminAPI.GET("/users", adminHandler.ListUsers)
	adminAPI.PATCH("/users/:id/role", adminHandler.UpdateRole)
	adminAPI.PATCH("/users/:id/status", adminHandler.UpdateStatus)
	adminAPI.DELETE("/users/:id", adminHandler.DeleteUser)
	adminAPI.POST("/notifications", adminHandler.CreateNotification)
	adminAPI.GET("/notifications", adminHandler.ListNotifications)

	return r
}

// seedUser 直接写库创建用户，返回模型。
func seedUser(t *testing.T, db *gorm.DB, username, password, role string, active bool) *models.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	if err != nil {
		t.Fatalf("哈希密码失败: %v", err)
	}
	user := models.User{
		Username:     username,
		Email:        strings.ToLower(username) + "@test.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	// GORM 的 Create 会因 default:true 标签忽略零值 IsActive，需显式落库
	if !active {
		if err := db.Model(&user).Update("is_active", false).Error; err != nil {
			t.Fatalf("设置用户禁用状态失败: %v", err)
		}
		user.IsActive = false
	}
	return &user
}

// doJSON 发送一次 JSON 请求。cookie 传空字符串表示匿名。
func doJSON(t *testing.T, r *gin.Engine, method, path, cookie string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decode 解析 JSON 响应体
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v (body=%s)", err, w.Body.String())
	}
	return body
}

// login 走真实登录接口拿会话 cookie。
func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("登录失败: status=%d body=%s", w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

// sessionCookie 从响应里取会话 cookie 的值。
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	res := w.Result()
	for _, ck := range res.Cookies() {
		if ck.Name == testCookieName {
			return ck.Value
		}
	}
	t.Fatal("响应中没有会话 cookie")
	return ""
}
