package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/config"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/database"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/models"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCookieName = "f1_session"

// SetupRouter 按相对路径加载模板，测试要站在仓库根目录跑
func TestMain(m *testing.M) {
	if err := os.Chdir("../.."); err != nil {
		fmt.Fprintf(os.Stderr, "chdir: %v\n", err)
		os.Exit(1)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			CookieName: testCookieName,
			TTLDays:    7,
		},
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

// 线上路由表必须包含每一个对外承诺的入口。
// 任何 handler 写完没挂到这里都会在本测试暴露。
func TestRouteTable(t *testing.T) {
	db := newTestDB(t)
	r := SetupRouter(newTestConfig(), db)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /",
		"GET /login",
		"GET /dashboard",
		"GET /admin",
		"POST /login",
		"POST /register",
		"POST /logout",
		"POST /profile",
		"POST /send-data",
		"GET /api/auth/status",
		"GET /api/info",
		"GET /api/search",
		"GET /api/constructors",
		"GET /api/constructors/stats",
		"GET /api/constructors/export.xlsx",
		"GET /api/constructors/:id",
		"POST /api/constructors",
		"PUT /api/constructors/:id",
		"DELETE /api/constructors/:id",
		"GET /api/drivers",
		"POST /api/drivers",
		"PUT /api/drivers/:id",
		"DELETE /api/drivers/:id",
		"POST /api/favorites/add",
		"POST /api/favorites/remove",
		"GET /api/notifications",
		"GET /api/admin/users",
		"PATCH /api/admin/users/:id/role",
		"PATCH /api/admin/users/:id/status",
		"DELETE /api/admin/users/:id",
		"POST /api/admin/notifications",
		"GET /api/admin/notifications",
	}
	for _, want := range expected {
		if !registered[want] {
			t.Errorf("路由表缺少 %s", want)
		}
	}
}

// 资料更新要能从真实路由表走通（登录 → POST /profile → 落库）
func TestProfileUpdateThroughRouter(t *testing.T) {
	db := newTestDB(t)
	r := SetupRouter(newTestConfig(), db)

	hash, err := util.HashPassword("password123")
	if err != nil {
		t.Fatalf("哈希密码失败: %v", err)
	}
	user := models.User{
		Username:     "alice",
		Email:        "alice@test.com",
		PasswordHash: hash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	post := func(path, cookie string, payload gin.H) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: testCookieName, Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// 未登录直接 401（不是 404：路由必须已注册）
	w := post("/profile", "", gin.H{"username": "alice2", "email": "alice@test.com"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("匿名更新资料 status=%d body=%s, want 401", w.Code, w.Body.String())
	}

	w = post("/login", "", gin.H{"email": "alice@test.com", "password": "password123"})
	if w.Code != http.StatusOK {
		t.Fatalf("登录 status=%d body=%s", w.Code, w.Body.String())
	}
	var cookie string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == testCookieName {
			cookie = ck.Value
		}
	}
	if cookie == "" {
		t.Fatal("登录未设置会话 cookie")
	}

	w = post("/profile", cookie, gin.H{"username": "alice2", "email": "alice@test.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("更新资料 status=%d body=%s", w.Code, w.Body.String())
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("读取用户失败: %v", err)
	}
	if reloaded.Username != "alice2" {
		t.Errorf("username = %q, want alice2", reloaded.Username)
	}
}
